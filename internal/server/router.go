package server

import (
	"net/http"

	"agenda-escolar/internal/config"
	"agenda-escolar/internal/handlers"
	"agenda-escolar/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sessionName = "agenda_session"

func NewRouter(cfg *config.Config, h *handlers.Handler, users middleware.UserLoader, log zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 12,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectUser(users, log))

	r.GET("/", h.Index)

	// AUTH
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// PAINEL
	auth.GET("/dashboard", h.Dashboard)
	auth.POST("/appointments/:id/checkout", h.Checkout)
	auth.GET("/appointments/:id/history", h.History)

	// EXPORTAÇÃO (mesmos filtros do painel)
	auth.GET("/export/excel", h.ExportExcel)
	auth.POST("/export/pdf/preview", h.PreviewPDF)
	auth.POST("/export/pdf", h.DownloadPDF)

	// ADMIN
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/appointments/new", h.NewAppointment)
	admin.POST("/appointments/new", h.CreateAppointment)
	admin.GET("/appointments/:id/edit", h.EditAppointment)
	admin.POST("/appointments/:id/edit", h.UpdateAppointment)
	admin.POST("/appointments/:id/delete", h.DeleteAppointment)

	admin.GET("/settings", h.Settings)
	admin.POST("/settings/:kind", h.AddSetting)
	admin.POST("/settings/:kind/:id/delete", h.DeleteSetting)

	admin.GET("/admin/users", h.ListUsers)
	admin.POST("/admin/users", h.CreateUser)
	admin.GET("/admin/users/:id/edit", h.EditUser)
	admin.POST("/admin/users/:id/edit", h.UpdateUser)
	admin.POST("/admin/users/:id/delete", h.DeleteUser)

	admin.GET("/audit", h.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", h.Health)

	return r, nil
}
