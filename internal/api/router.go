package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskative-core/server/internal/core"
	"github.com/taskative-core/server/internal/store"
)

// SetupRouter registers all endpoints and middleware.
func SetupRouter(env core.Environment, st *store.Store, runner AgentRunner) *gin.Engine {
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	h := NewHandler(st, runner)

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/api/:user_id/chat", h.Chat)

	return r
}
