package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/eventra/backend/internal/dispatch"
	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/repositories"
)

// StaffHandler handles staff profile CRUD. Creating a staff member fires a
// broadcast; the create itself never waits on or fails with delivery.
type StaffHandler struct {
	staffRepository repositories.StaffRepository
	dispatcher      *dispatch.Dispatcher
}

func NewStaffHandler(staffRepo repositories.StaffRepository, dispatcher *dispatch.Dispatcher) *StaffHandler {
	return &StaffHandler{staffRepository: staffRepo, dispatcher: dispatcher}
}

// RegisterStaffRoutes registers staff routes
func (h *StaffHandler) RegisterStaffRoutes(g *echo.Group) {
	g.POST("/staff", h.CreateStaff)
	g.GET("/staff", h.GetStaff)
	g.GET("/staff/:id", h.GetStaffMember)
	g.PUT("/staff/:id", h.UpdateStaff)
	g.DELETE("/staff/:id", h.DeleteStaff)
}

func (h *StaffHandler) CreateStaff(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	staff := &models.StaffMember{
		FullName:   req.FullName,
		Bio:        req.Bio,
		Categories: req.Categories,
		AvatarURL:  req.AvatarURL,
		Phone:      req.Phone,
		IsActive:   true,
	}
	if err := h.staffRepository.CreateStaff(staff); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.dispatcher.DispatchAsync(dispatch.NewStaffEvent(staff))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": staff})
}

func (h *StaffHandler) GetStaff(c echo.Context) error {
	activeOnly := c.QueryParam("active_only") == "true"
	staff, err := h.staffRepository.GetStaff(activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": staff})
}

func (h *StaffHandler) GetStaffMember(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid staff ID")
	}

	staff, err := h.staffRepository.GetStaffByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Staff member not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": staff})
}

func (h *StaffHandler) UpdateStaff(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid staff ID")
	}

	var req models.UpdateStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	staff, err := h.staffRepository.GetStaffByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Staff member not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.FullName != "" {
		staff.FullName = req.FullName
	}
	if req.Bio != "" {
		staff.Bio = req.Bio
	}
	if req.Categories != nil {
		staff.Categories = req.Categories
	}
	if req.AvatarURL != "" {
		staff.AvatarURL = req.AvatarURL
	}
	if req.Phone != "" {
		staff.Phone = req.Phone
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.staffRepository.UpdateStaff(staff); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": staff})
}

func (h *StaffHandler) DeleteStaff(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid staff ID")
	}

	if err := h.staffRepository.DeleteStaff(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
