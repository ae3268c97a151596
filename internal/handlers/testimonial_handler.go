package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/repositories"
)

// TestimonialHandler handles client reviews and their moderation
type TestimonialHandler struct {
	testimonialRepository repositories.TestimonialRepository
}

func NewTestimonialHandler(testimonialRepo repositories.TestimonialRepository) *TestimonialHandler {
	return &TestimonialHandler{testimonialRepository: testimonialRepo}
}

// RegisterTestimonialRoutes registers testimonial routes
func (h *TestimonialHandler) RegisterTestimonialRoutes(g *echo.Group) {
	g.POST("/testimonials", h.CreateTestimonial)
	g.GET("/testimonials", h.GetTestimonials)
	g.PUT("/testimonials/:id/approval", h.SetApproval)
	g.DELETE("/testimonials/:id", h.DeleteTestimonial)
}

func (h *TestimonialHandler) CreateTestimonial(c echo.Context) error {
	var req models.CreateTestimonialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	testimonial := &models.Testimonial{
		AuthorName: req.AuthorName,
		Content:    req.Content,
		Rating:     req.Rating,
	}
	if err := h.testimonialRepository.CreateTestimonial(testimonial); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": testimonial})
}

func (h *TestimonialHandler) GetTestimonials(c echo.Context) error {
	// Non-admins only ever see approved reviews
	approvedOnly := !isAdmin(c) || c.QueryParam("approved_only") == "true"
	testimonials, err := h.testimonialRepository.GetTestimonials(approvedOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": testimonials})
}

func (h *TestimonialHandler) SetApproval(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid testimonial ID")
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.testimonialRepository.SetApproval(uint(id), req.Approved); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *TestimonialHandler) DeleteTestimonial(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid testimonial ID")
	}

	if err := h.testimonialRepository.DeleteTestimonial(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
