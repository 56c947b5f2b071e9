package server

import (
	"net/http"

	"github.com/ahmedEssyad/eter-reports-separated/internal/auth"
	"github.com/ahmedEssyad/eter-reports-separated/internal/config"
	"github.com/ahmedEssyad/eter-reports-separated/internal/handlers"
	"github.com/ahmedEssyad/eter-reports-separated/internal/middleware"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/pdf"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services groups everything the routes depend on.
type Services struct {
	Reports  *reports.Service
	Auth     *auth.Service
	Renderer *pdf.Renderer
}

func NewRouter(cfg *config.Config, svcs Services, logger *zap.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
	})
	r.Use(sessions.Sessions("eter_session", store))

	dev := cfg.IsDevelopment()
	formsH := handlers.NewFormHandler(svcs.Reports, logger, dev)
	authH := handlers.NewAuthHandler(svcs.Auth, logger, dev)
	usersH := handlers.NewUserHandler(svcs.Auth, logger, dev)
	pdfH := handlers.NewPDFHandler(svcs.Reports, svcs.Renderer, logger, dev)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/uploads", cfg.UploadsDir)

	api := r.Group("/api")

	// Auth
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authH.Logout)

	authed := api.Group("/")
	authed.Use(middleware.RequireAuth())
	authed.GET("/auth/verify", authH.Verify)
	authed.PUT("/auth/password", authH.ChangePassword)
	authed.GET("/auth/profile", authH.Profile)
	authed.PUT("/auth/profile", authH.UpdateProfile)

	// Field crews submit without an account.
	api.POST("/forms/submit", formsH.Submit)

	admin := api.Group("/")
	admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))

	admin.GET("/forms", formsH.List)
	admin.GET("/forms/statistics", formsH.Statistics)
	admin.GET("/forms/date-range", formsH.DateRange)
	admin.GET("/forms/:id", formsH.Get)
	admin.PUT("/forms/:id/status", formsH.UpdateStatus)
	admin.PUT("/forms/bulk", formsH.Bulk)
	admin.DELETE("/forms/:id", formsH.Delete)

	admin.GET("/pdf/report/:id", pdfH.SingleReport)
	admin.POST("/pdf/reports/multiple", pdfH.MultipleReports)
	admin.GET("/pdf/reports/date-range", pdfH.DateRangeReports)
	admin.GET("/pdf/summary", pdfH.Summary)

	admin.GET("/users", usersH.List)
	admin.POST("/users", usersH.Create)
	admin.PUT("/users/:id", usersH.Update)
	admin.DELETE("/users/:id", usersH.Delete)

	return r
}
