package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

// currentClaims pulls the JWT claims stored by the auth middleware
func currentClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

func currentUserID(c echo.Context) uint {
	if claims := currentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func isAdmin(c echo.Context) bool {
	claims := currentClaims(c)
	return claims != nil && claims.Role == string(models.RoleAdmin)
}

// httpError maps application error codes onto HTTP statuses
func httpError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeInvalidArgument:
			return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
		case apperrors.CodeNotFound:
			return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
		case apperrors.CodeAlreadyExists:
			return echo.NewHTTPError(http.StatusConflict, appErr.Message)
		case apperrors.CodePermissionDenied:
			return echo.NewHTTPError(http.StatusForbidden, appErr.Message)
		case apperrors.CodeUnauthenticated:
			return echo.NewHTTPError(http.StatusUnauthorized, appErr.Message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
