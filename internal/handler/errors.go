package handler

import (
	"SendBay/internal/service"
	"SendBay/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FailService maps a service-layer sentinel error onto an HTTP response.
func FailService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.Fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrExpired):
		utils.Fail(c, http.StatusGone, "link expired")
	case errors.Is(err, service.ErrLimitReached):
		utils.Fail(c, http.StatusGone, "download limit reached")
	case errors.Is(err, service.ErrPasswordInvalid):
		utils.Fail(c, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, service.ErrForbidden):
		utils.Fail(c, http.StatusForbidden, "not allowed")
	case errors.Is(err, service.ErrValidation):
		utils.Fail(c, http.StatusBadRequest, "invalid input")
	case errors.Is(err, service.ErrSizeExceeded):
		utils.Fail(c, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, service.ErrSMTPUnavailable):
		utils.Fail(c, http.StatusServiceUnavailable, "smtp not configured")
	case errors.Is(err, service.ErrStorage):
		log.Printf("storage error: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "storage failure")
	default:
		log.Printf("internal error: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "internal error")
	}
}
