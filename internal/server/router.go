package server

import (
	"net/http"

	"studio-hub/internal/config"
	"studio-hub/internal/crew"
	"studio-hub/internal/database"
	"studio-hub/internal/gate"
	"studio-hub/internal/handlers"
	"studio-hub/internal/logging"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"
	"studio-hub/internal/realtime"
	"studio-hub/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает сервисы поверх database.DB и регистрирует маршруты API.
func NewRouter(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logging.Middleware(log), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("studio_session", store))

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	hub := realtime.NewHub(log.Named("realtime"))

	g := gate.New(database.DB, gate.UserRoles{DB: database.DB}, log.Named("gate"))
	g.SetPublisher(hub)
	rec := crew.New(database.DB, log.Named("crew"))

	h := handlers.New(g, rec, tokens, log)

	r.GET("/health", h.Health)

	api := r.Group("/api")

	// AUTH
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth(tokens))

	auth.GET("/me", h.Me)
	auth.GET("/ws", hub.Serve)

	managers := middleware.RequireRole(models.RoleSuperAdmin, models.RoleProjectManager)
	staff := middleware.RequireRole(models.RoleSuperAdmin, models.RoleHR)
	planners := middleware.RequireRole(models.RoleSuperAdmin, models.RoleHR, models.RoleProjectManager)

	// КЛИЕНТЫ
	auth.GET("/clients", h.ListClients)
	auth.POST("/clients", managers, h.CreateClient)
	auth.GET("/clients/:id", h.GetClient)
	auth.PUT("/clients/:id", managers, h.UpdateClient)

	// ПРОЕКТЫ
	auth.GET("/projects", h.ListProjects)
	auth.POST("/projects", managers, h.CreateProject)
	auth.GET("/projects/:id", h.GetProject)
	auth.PUT("/projects/:id", managers, h.UpdateProject)
	auth.DELETE("/projects/:id", middleware.RequireRole(models.RoleSuperAdmin), h.DeleteProject)
	auth.POST("/projects/:id/status", h.StatusRoute(gate.EntityProject))
	auth.GET("/projects/:id/history", h.HistoryRoute(gate.EntityProject))

	// ЗАДАЧИ
	auth.GET("/tasks", h.ListTasks)
	auth.POST("/tasks", h.CreateTask)
	auth.GET("/tasks/:id", h.GetTask)
	auth.POST("/tasks/:id/status", h.StatusRoute(gate.EntityTask))
	auth.GET("/tasks/:id/history", h.HistoryRoute(gate.EntityTask))

	// СОБЫТИЯ
	auth.GET("/events", h.ListEvents)
	auth.POST("/events", planners, h.CreateEvent)
	auth.POST("/events/:id/transition", h.TransitionEvent)
	auth.GET("/events/:id/history", h.HistoryRoute(gate.EntityEvent))

	// ВСТРЕЧИ
	auth.GET("/meetings", h.ListMeetings)
	auth.POST("/meetings", h.CreateMeeting)
	auth.POST("/meetings/:id/status", h.StatusRoute(gate.EntityMeeting))
	auth.GET("/meetings/:id/history", h.HistoryRoute(gate.EntityMeeting))

	// СЪЁМКИ
	auth.GET("/shootings", h.ListShootings)
	auth.POST("/shootings", h.CreateShooting)
	auth.GET("/shootings/:id", h.GetShooting)
	auth.GET("/shootings/:id/crew", h.GetCrew)
	auth.PUT("/shootings/:id/crew", h.ReplaceCrew)
	auth.GET("/shootings/:id/summary", h.CrewSummary)
	auth.POST("/shootings/:id/approve", h.ApproveShooting)
	auth.POST("/shootings/:id/reject", h.RejectShooting)
	auth.POST("/shootings/:id/status", h.StatusRoute(gate.EntityShooting))
	auth.GET("/shootings/:id/history", h.HistoryRoute(gate.EntityShooting))
	auth.GET("/freelancers", h.ListFreelancers)

	// ОБОРУДОВАНИЕ
	auth.GET("/assets", h.ListAssets)
	auth.POST("/assets", staff, h.CreateAsset)
	auth.PUT("/assets/:id", staff, h.UpdateAsset)
	auth.POST("/assets/:id/checkout", h.CheckoutAsset)
	auth.POST("/assets/:id/return", h.ReturnAsset)
	auth.POST("/assets/:id/status", h.StatusRoute(gate.EntityAsset))
	auth.GET("/assets/:id/history", h.HistoryRoute(gate.EntityAsset))

	// ЖУРНАЛ И ОТЧЁТЫ
	auth.GET("/audit", staff, h.ListAuditLogs)
	auth.GET("/reports/tasks", h.TaskReport)

	return r
}
