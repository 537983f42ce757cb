package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classpulse/internal/attendance"
	"classpulse/internal/auth"
	"classpulse/internal/cloudinary"
	"classpulse/internal/config"
	"classpulse/internal/expression"
	"classpulse/internal/handler"
	"classpulse/internal/httpmiddleware"
	"classpulse/internal/store"
	"classpulse/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var sessionStore auth.SessionStore
	if cfg.SessionBackend == "memory" {
		sessionStore = auth.NewMemorySessions()
	} else {
		sessionStore = auth.NewRedisSessions(redisClient.Client)
	}
	sessions := auth.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)

	var classifier expression.Classifier
	if cfg.FaceSkip {
		classifier = expression.NewMock(time.Now().UnixNano())
		log.Println("expression classifier: mock (FACE_SKIP set)")
	} else {
		classifier = expression.NewClient(cfg.FaceServiceURL)
		log.Println("expression classifier: face service at", cfg.FaceServiceURL)
	}

	users := user.NewRepository(db.Client)
	records := attendance.NewRepository(db.Client)
	att := attendance.NewService(records, users, classifier)

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	if !cfg.Production() && cfg.SeedDemo {
		if err := seedDemo(ctx, users); err != nil {
			log.Printf("demo seed failed: %v", err)
		}
	}

	h := handler.New(users, att, sessions, cdnClient, cfg.TeacherCode, cfg.CookieSecure, cfg.SessionTTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		redisHealthy := cfg.SessionBackend == "memory" || redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	authed := api.Group("", auth.RequireUser(sessions, users))
	authed.GET("/user", h.Me)

	student := authed.Group("", auth.RequireRole(user.RoleStudent))
	student.POST("/upload", h.Upload)
	student.POST("/attendance", h.MarkAttendance)
	student.POST("/attendance/mark", h.MarkAttendance) // older client revision
	student.GET("/attendance/history", h.History)

	teacher := authed.Group("/teacher", auth.RequireRole(user.RoleTeacher))
	teacher.GET("/stats", h.Stats)
	teacher.GET("/students", h.Students)
	teacher.GET("/students/:id/history", h.StudentHistory)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// seedDemo creates one teacher and one student account on an empty database
// so the app is explorable out of the box.
func seedDemo(ctx context.Context, users *user.Repository) error {
	n, err := users.CountStudents(ctx)
	if err != nil || n > 0 {
		return err
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	if _, err := users.Create(ctx, user.User{
		Username:     "teacher@school.com",
		PasswordHash: hash,
		Role:         user.RoleTeacher,
		Name:         "Ms. Johnson",
	}); err != nil && err != user.ErrUsernameTaken {
		return err
	}

	roll := "ROLL001"
	section := "10-A"
	if _, err := users.Create(ctx, user.User{
		Username:     "student@school.com",
		PasswordHash: hash,
		Role:         user.RoleStudent,
		Name:         "John Doe",
		RollNumber:   &roll,
		ClassSection: &section,
	}); err != nil && err != user.ErrUsernameTaken {
		return err
	}

	log.Println("seeded demo accounts (teacher@school.com / student@school.com)")
	return nil
}

// CORS middleware for browser requests. The session cookie crosses origins,
// so credentials must be allowed and the origin reflected.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
