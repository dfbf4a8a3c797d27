package errors

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/models"
	"github.com/labstack/echo/v4"
)

// ValidationError returns a generic validation error without exposing internal details
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// BadRequestError returns a 400 with a message that is safe to show callers
func BadRequestError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// NotFoundError returns a generic not found error
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "The requested " + resource + " was not found.",
	})
}

// ConflictError returns a 409 with a message that is safe to show callers
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Error:   "conflict",
		Message: message,
	})
}

// UnavailableError returns a 503 asking the caller to retry later
func UnavailableError(c echo.Context, message string) error {
	c.Response().Header().Set("Retry-After", "60")
	return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error:   "unavailable",
		Message: message,
	})
}

// FromDomain maps a domain error onto the matching response.
func FromDomain(c echo.Context, err error) error {
	var de *domain.DomainError
	if !stderrors.As(err, &de) {
		return InternalError(c, err)
	}

	switch de.Code {
	case domain.ErrCodeValidation:
		return ValidationError(c, err)
	case domain.ErrCodeNotFound:
		return NotFoundError(c, "resource")
	case domain.ErrCodeBadRequest:
		return BadRequestError(c, de.Message)
	case domain.ErrCodeConflict:
		return ConflictError(c, de.Message)
	case domain.ErrCodeUnavailable:
		return UnavailableError(c, de.Message)
	default:
		return InternalError(c, err)
	}
}
