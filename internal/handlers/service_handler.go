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

// ServiceHandler handles event-service catalog CRUD
type ServiceHandler struct {
	serviceRepository repositories.ServiceRepository
	dispatcher        *dispatch.Dispatcher
}

func NewServiceHandler(serviceRepo repositories.ServiceRepository, dispatcher *dispatch.Dispatcher) *ServiceHandler {
	return &ServiceHandler{serviceRepository: serviceRepo, dispatcher: dispatcher}
}

// RegisterServiceRoutes registers service catalog routes
func (h *ServiceHandler) RegisterServiceRoutes(g *echo.Group) {
	g.POST("/services", h.CreateService)
	g.GET("/services", h.GetServices)
	g.GET("/services/:id", h.GetService)
	g.PUT("/services/:id", h.UpdateService)
	g.DELETE("/services/:id", h.DeleteService)
}

func (h *ServiceHandler) CreateService(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	service := &models.Service{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := h.serviceRepository.CreateService(service); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.dispatcher.DispatchAsync(dispatch.NewServiceEvent(service))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": service})
}

func (h *ServiceHandler) GetServices(c echo.Context) error {
	category := c.QueryParam("category")
	activeOnly := c.QueryParam("active_only") == "true"
	services, err := h.serviceRepository.GetServices(category, activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": services})
}

func (h *ServiceHandler) GetService(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid service ID")
	}

	service, err := h.serviceRepository.GetServiceByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Service not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": service})
}

func (h *ServiceHandler) UpdateService(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid service ID")
	}

	var req models.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	service, err := h.serviceRepository.GetServiceByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Service not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Title != "" {
		service.Title = req.Title
	}
	if req.Description != "" {
		service.Description = req.Description
	}
	if req.Category != "" {
		service.Category = req.Category
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.ImageURL != "" {
		service.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.serviceRepository.UpdateService(service); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": service})
}

func (h *ServiceHandler) DeleteService(c echo.Context) error {
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid service ID")
	}

	if err := h.serviceRepository.DeleteService(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
