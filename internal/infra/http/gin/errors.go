package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/handlers/reports"
	"guesthouse/internal/app/middleware"
	"guesthouse/internal/app/queries"
	"guesthouse/internal/app/snapshot"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/infra/security"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainbooking.ErrCommentNotFound),
		errors.Is(err, domaincontacts.ErrContactNotFound),
		errors.Is(err, houses.ErrHouseNotFound):
		return http.StatusNotFound
	case isValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, security.ErrPINRequired),
		errors.Is(err, security.ErrPINInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, middleware.ErrIdempotencyKeyReused),
		errors.Is(err, uow.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, snapshot.ErrNotReady),
		errors.Is(err, reports.ErrUploaderMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, commands.ErrHandlerNotFound),
		errors.Is(err, queries.ErrHandlerNotFound):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, middleware.ErrValidation),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrInvalidStatus),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrContactRequired),
		errors.Is(err, domainbooking.ErrNegativePrice),
		errors.Is(err, domainbooking.ErrEmptyComment),
		errors.Is(err, domainbooking.ErrStayStatusNeeded),
		errors.Is(err, domaincontacts.ErrNameRequired),
		errors.Is(err, pricing.ErrNegativeRate),
		errors.Is(err, pricing.ErrUnknownDay):
		return true
	}
	return false
}

func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	var verr *middleware.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	if log != nil && status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
	}
	c.AbortWithStatusJSON(status, body)
}

func unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "handler unavailable"})
}
