package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cafflog/cafflog-api/internal/catalog"
	"github.com/cafflog/cafflog-api/internal/domain"
	"github.com/cafflog/cafflog-api/internal/service/auth"
	"github.com/cafflog/cafflog-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. The specific user and dose sentinels wrap
	// store.ErrNotFound, so one check covers them all.
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrInvalidDoseDate),
		errors.Is(err, domain.ErrInvalidDoseTime):
		return http.StatusBadRequest

	// Drink estimation errors
	case errors.Is(err, catalog.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, catalog.ErrInvalidResponse),
		errors.Is(err, catalog.ErrTransientFailure),
		errors.Is(err, catalog.ErrEstimationFailed):
		return http.StatusBadGateway

	case errors.Is(err, catalog.ErrInvalidConfig):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token not yet valid"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token expired"

	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDoseNotFound):
		return "Dose entry not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email address is already registered"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	// Validation errors
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 12 characters"

	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters"

	case errors.Is(err, domain.ErrEmptyPassword):
		return "Password is required"

	case errors.Is(err, domain.ErrInvalidDoseDate):
		return "Dose date must be a valid MM/DD calendar day"

	case errors.Is(err, domain.ErrInvalidDoseTime):
		return "Dose time must be a valid HH:MM time of day"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	// Drink estimation errors
	case errors.Is(err, catalog.ErrContentBlocked):
		return "Description was rejected by the content filter"

	case errors.Is(err, catalog.ErrInvalidResponse):
		return "Estimation service returned an invalid response"

	case errors.Is(err, catalog.ErrTransientFailure):
		return "Estimation service is temporarily unavailable"

	case errors.Is(err, catalog.ErrEstimationFailed):
		return "Failed to estimate caffeine content"

	case errors.Is(err, catalog.ErrInvalidConfig):
		return "Drink estimation is not configured"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message naming the first failing field, without echoing the submitted
// value back.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe))
	}
	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly error
// messages.
func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be greater than " + fe.Param()
	case "dosedate":
		return "must be a valid MM/DD calendar day"
	case "dosetime":
		return "must be a valid HH:MM time of day"
	default:
		return "validation failed"
	}
}
