package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trustly/internal/models/request_models"
	"trustly/pkg/middleware"
	"trustly/pkg/utils"
)

// currentUser writes a 401 and returns false when the request carries no authenticated account.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// respondMultipartError distinguishes an oversized body from a malformed one.
func respondMultipartError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.RespondError(c, http.StatusRequestEntityTooLarge, "Upload is too large")
		return
	}
	utils.RespondError(c, http.StatusBadRequest, "Invalid multipart form")
}

// formFile reads the single file part named field.
func formFile(c *gin.Context, field string) (request_models.UploadedFile, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			utils.RespondError(c, http.StatusBadRequest, "Please choose a file to upload")
			return request_models.UploadedFile{}, false
		}
		respondMultipartError(c, err)
		return request_models.UploadedFile{}, false
	}
	return request_models.FromFileHeader(fh), true
}
