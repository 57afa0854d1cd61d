package api

import (
	"errors"
	"net/http"
	"strconv"

	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, msg)
}

func unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, msg)
}

// writeError maps service errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	var throttled *services.ThrottledError
	switch {
	case errors.As(err, &throttled):
		c.Header("Retry-After", strconv.Itoa(throttled.WaitSeconds))
		fail(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrInvalid):
		badRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorized(c, "invalid credentials")
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("[api] request failed")
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
