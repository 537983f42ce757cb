package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classpulse/internal/attendance"
	"classpulse/internal/auth"
	"classpulse/internal/cloudinary"
	"classpulse/internal/user"
)

// Handler carries the dependencies behind the /api surface.
type Handler struct {
	users        user.Store
	attendance   *attendance.Service
	sessions     *auth.Manager
	cloud        *cloudinary.Client // nil if Cloudinary not configured
	teacherCode  string
	cookieSecure bool
	cookieTTL    time.Duration
}

// New creates a handler.
func New(users user.Store, att *attendance.Service, sessions *auth.Manager, cloud *cloudinary.Client, teacherCode string, cookieSecure bool, cookieTTL time.Duration) *Handler {
	if cookieTTL <= 0 {
		cookieTTL = 24 * time.Hour
	}
	return &Handler{
		users:        users,
		attendance:   att,
		sessions:     sessions,
		cloud:        cloud,
		teacherCode:  teacherCode,
		cookieSecure: cookieSecure,
		cookieTTL:    cookieTTL,
	}
}

// ---------- Auth ----------

type registerRequest struct {
	Username          string  `json:"username" binding:"required"`
	Password          string  `json:"password" binding:"required"`
	Role              string  `json:"role" binding:"required,oneof=student teacher"`
	Name              string  `json:"name" binding:"required"`
	RollNumber        *string `json:"rollNumber"`
	ClassSection      *string `json:"classSection"`
	TeacherSecretCode string  `json:"teacherSecretCode"`
}

// Register creates an account and establishes a session for it. Teacher
// registration requires the server-held secret code.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == user.RoleTeacher {
		if req.TeacherSecretCode != h.teacherCode {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid teacher code"})
			return
		}
		// Teacher accounts never carry student fields.
		req.RollNumber = nil
		req.ClassSection = nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	created, err := h.users.Create(c.Request.Context(), user.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         req.Name,
		RollNumber:   req.RollNumber,
		ClassSection: req.ClassSection,
	})
	if err != nil {
		if err == user.ErrUsernameTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.startSession(c, &created); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, created)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and establishes a session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if err := h.startSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	loginsTotal.Inc()
	c.JSON(http.StatusOK, u)
}

// Logout destroys the current session. Idempotent; succeeds with or without
// a valid session.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		_ = h.sessions.Revoke(c.Request.Context(), token)
	}
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusOK)
}

// Me returns the authenticated principal.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, auth.Principal(c))
}

func (h *Handler) startSession(c *gin.Context, u *user.User) error {
	token, err := h.sessions.Issue(c.Request.Context(), u.ID, u.Role)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token, int(h.cookieTTL.Seconds()))
	return nil
}

// setSessionCookie writes the session cookie. Cross-origin deployments need
// SameSite=None with Secure; same-site dev setups get Lax.
func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	if h.cookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", h.cookieSecure, true)
}
