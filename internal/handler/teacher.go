package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classpulse/internal/user"
)

// Stats returns the class aggregate for the teacher dashboard.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.attendance.ClassStats(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Students returns the roster, optionally filtered to one class section.
func (h *Handler) Students(c *gin.Context) {
	students, err := h.users.ListStudents(c.Request.Context(), c.Query("classSection"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if students == nil {
		students = []user.User{}
	}
	c.JSON(http.StatusOK, students)
}

// StudentHistory returns one student's records, newest first. Ids that do not
// exist or do not belong to a student yield an empty list.
func (h *Handler) StudentHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}
	records, err := h.attendance.HistoryByStudent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, records)
}
