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

// OfferHandler handles promotional banner CRUD
type OfferHandler struct {
	offerRepository repositories.OfferRepository
	dispatcher      *dispatch.Dispatcher
}

func NewOfferHandler(offerRepo repositories.OfferRepository, dispatcher *dispatch.Dispatcher) *OfferHandler {
	return &OfferHandler{offerRepository: offerRepo, dispatcher: dispatcher}
}

// RegisterOfferRoutes registers offer routes
func (h *OfferHandler) RegisterOfferRoutes(g *echo.Group) {
	g.POST("/offers", h.CreateOffer)
	g.GET("/offers", h.GetOffers)
	g.GET("/offers/running", h.GetRunningOffers)
	g.PUT("/offers/:id", h.UpdateOffer)
	g.DELETE("/offers/:id", h.DeleteOffer)
}

func (h *OfferHandler) CreateOffer(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer := &models.Offer{
		Title:       req.Title,
		Description: req.Description,
		BannerURL:   req.BannerURL,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsActive:    true,
	}
	if err := h.offerRepository.CreateOffer(offer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.dispatcher.DispatchAsync(dispatch.NewOfferEvent(offer))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": offer})
}

func (h *OfferHandler) GetOffers(c echo.Context) error {
	activeOnly := c.QueryParam("active_only") == "true"
	offers, err := h.offerRepository.GetOffers(activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": offers})
}

func (h *OfferHandler) GetRunningOffers(c echo.Context) error {
	offers, err := h.offerRepository.GetRunningOffers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": offers})
}

func (h *OfferHandler) UpdateOffer(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid offer ID")
	}

	var req models.UpdateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer, err := h.offerRepository.GetOfferByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Offer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Title != "" {
		offer.Title = req.Title
	}
	if req.Description != "" {
		offer.Description = req.Description
	}
	if req.BannerURL != "" {
		offer.BannerURL = req.BannerURL
	}
	if req.StartsAt != nil {
		offer.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		offer.EndsAt = req.EndsAt
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := h.offerRepository.UpdateOffer(offer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": offer})
}

func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid offer ID")
	}

	if err := h.offerRepository.DeleteOffer(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
