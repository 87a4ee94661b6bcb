package http

import (
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the identity and task endpoints. Everything under
// /tasks (and the event feed) requires a valid bearer token.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, db *pgxpool.Pool, hub *ws.Hub, version string) {
	healthHandler := handlers.NewHealthHandler(db, version)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	tasks := r.Group("/tasks")
	tasks.Use(middleware.JWT(h.Tokens))
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	if hub != nil {
		r.GET("/ws", h.WS(hub))
	}
}

// NewRouter assembles a gin engine with the standard middleware chain. Split
// out so handler tests can build the same router around in-memory services.
func NewRouter(h *handlers.Handler, db *pgxpool.Pool, hub *ws.Hub, version string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	RegisterRoutes(r, h, db, hub, version)
	return r
}
