package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	TraceIDKey = "trace_id"
	LoggerKey  = "logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, "success", message, data)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, "success", message, data)
}

func RespondError(c *gin.Context, code int, message string) {
	respond(c, code, "error", message, nil)
}

func respond(c *gin.Context, code int, status, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

// LoggerFrom returns the request scoped logger set by the logging middleware.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}

var errorStatus = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrAccountNotFound, http.StatusUnauthorized, "Invalid email or password"},
	{ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
	{ErrForbidden, http.StatusForbidden, "You do not have access to this resource"},
	{ErrEmailAlreadyExists, http.StatusConflict, "An account with this email already exists"},
	{ErrBusinessNotFound, http.StatusNotFound, "Business not found"},
	{ErrCampaignNotFound, http.StatusNotFound, "Campaign not found"},
	{ErrTestimonialNotFound, http.StatusNotFound, "Testimonial not found"},
	{ErrMediaNotFound, http.StatusNotFound, "Media not found"},
	{ErrFormNotFound, http.StatusNotFound, "This feedback form could not be found"},
	{ErrDuplicateSubmission, http.StatusTooManyRequests, "Please wait a few minutes before submitting another testimonial"},
	{ErrNoValidCustomers, http.StatusBadRequest, "No valid customers found in CSV"},
	{ErrMailNotConfigured, http.StatusBadRequest, "Please enter an email address first"},
}

func HandleServiceError(c *gin.Context, err error) {
	if ve, ok := IsValidationError(err); ok {
		RespondError(c, http.StatusBadRequest, ve.Message)
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			RespondError(c, m.code, m.message)
			return
		}
	}

	log := LoggerFrom(c)
	switch {
	case errors.Is(err, ErrDatabaseError):
		log.Error("database error", zap.Error(err))
	case errors.Is(err, ErrStorageError):
		log.Error("storage error", zap.Error(err))
	default:
		log.Error("unhandled service error", zap.Error(err))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
