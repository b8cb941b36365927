package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/handlers"
	"github.com/TatiTo-bot/Proyecto-sena-circular/middlewares"
)

// Register monta todas las rutas HTTP.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (singletons compartidos) =====
	auth := handlers.NewAuthHandler(cfg)
	apr := handlers.NewAprendizHandler()
	fch := handlers.NewFichaHandler()
	ina := handlers.NewInasistenciaHandler()
	dash := handlers.NewDashboardHandler(cfg)
	casos := handlers.NewCasosHandler(cfg)
	actas := handlers.NewActaHandler()
	up := handlers.NewUploadHandler(cfg)
	notif := handlers.NewNotificacionHandler(cfg)

	// ===== Público =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	// ===== Protegido: cualquier usuario autenticado =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	api := e.Group("", authMW, middlewares.RequireRole("instructor", "coordinador"))

	api.GET("/dashboard", dash.Resumen)

	api.GET("/aprendices", apr.List)
	api.GET("/aprendices/:documento", apr.Get)
	api.POST("/aprendices", apr.Create)
	api.PUT("/aprendices/:documento", apr.Update)

	api.GET("/fichas", fch.List)
	api.GET("/fichas/:numero", fch.Get)
	api.POST("/fichas", fch.Create)
	api.PUT("/fichas/:numero", fch.Update)

	api.GET("/inasistencias", ina.List)
	api.POST("/inasistencias", ina.Create)

	api.GET("/casos/por-certificar", casos.PorCertificar)
	api.GET("/casos/vencidos", casos.Vencidos)
	api.GET("/reportes/circular120", casos.ReporteCircular120)

	api.GET("/actas", actas.List)

	// Carga de archivos (ambos flujos: global y por ficha)
	api.POST("/upload", up.Upload)
	api.POST("/fichas/:numero/upload", up.UploadFicha)

	// ===== Solo coordinación: decisiones de comité =====
	coord := e.Group("", authMW, middlewares.RequireRole("coordinador"))
	coord.POST("/aprendices/:documento/certificar", apr.Certificar)
	coord.POST("/aprendices/:documento/cancelar", apr.Cancelar)
	coord.POST("/actas", actas.Create)
	coord.POST("/fichas/:numero/recordatorio", notif.RecordatorioInstructor)
}
