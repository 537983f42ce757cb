package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classpulse/internal/attendance"
	"classpulse/internal/auth"
	"classpulse/internal/cloudinary"
)

type questionnairePayload struct {
	Understanding int    `json:"understanding" binding:"required,min=1,max=5"`
	Sleepiness    int    `json:"sleepiness" binding:"required,min=1,max=5"`
	Stress        int    `json:"stress" binding:"required,min=1,max=5"`
	Mood          string `json:"mood" binding:"required"`
}

type markAttendanceRequest struct {
	ImageURL      string               `json:"imageUrl"`
	Questionnaire questionnairePayload `json:"questionnaire" binding:"required"`
}

// MarkAttendance records one check-in for the calling student: classify the
// captured photo, score it together with the questionnaire, persist a single
// record, return it.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := auth.Principal(c)
	rec, err := h.attendance.CheckIn(c.Request.Context(), principal.ID, req.ImageURL, attendance.Questionnaire{
		Understanding: req.Questionnaire.Understanding,
		Sleepiness:    req.Questionnaire.Sleepiness,
		Stress:        req.Questionnaire.Stress,
		Mood:          req.Questionnaire.Mood,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidQuestionnaire) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("check-in failed for student %d: %v", principal.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	checkinsTotal.Inc()
	c.JSON(http.StatusCreated, rec)
}

// History returns the calling student's own records, newest first.
func (h *Handler) History(c *gin.Context) {
	records, err := h.attendance.HistoryByStudent(c.Request.Context(), auth.Principal(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// Upload stores a captured photo and returns its public URL for use as
// imageUrl on check-in. Accepts a multipart file or a JSON base64 data URL.
func (h *Handler) Upload(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	var result *cloudinary.UploadResult
	var err error

	switch {
	case strings.Contains(c.ContentType(), "multipart/form-data"):
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
			return
		}
		result, err = h.cloud.UploadBytes(data, header.Filename)

	default:
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err = h.cloud.UploadBase64(body.Data)
	}

	if err != nil {
		log.Printf("cloudinary upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"width":     result.Width,
		"height":    result.Height,
		"bytes":     result.Bytes,
	})
}
