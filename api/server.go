package api

import (
	"github.com/gin-gonic/gin"

	"clipsmith/editor"
	"clipsmith/jobstore"
)

// Deps carries the collaborators the API handlers need.
type Deps struct {
	Processor *editor.Processor
	Store     *jobstore.Store
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterJobRoutes(r, deps)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers the health endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
}
