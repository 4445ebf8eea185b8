package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/handlers"
)

// HandlerContainer holds all handlers served by the API
type HandlerContainer struct {
	Analyze *handlers.AnalyzeHandler
}

// RegisterRoutes registers the analyze routes on the rate limited api group
// and the recorder form endpoint on root.
func RegisterRoutes(root *gin.Engine, api *gin.RouterGroup, container *HandlerContainer) {
	v1 := api.Group("/v1")
	{
		v1.POST("/analyze", container.Analyze.Analyze)
	}

	// unversioned path kept for existing clients
	api.POST("/analyze", container.Analyze.Analyze)

	root.POST("/save-audio", container.Analyze.SaveAudio)
}
