package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/ideaflow/api/handler"
)

type Handlers struct {
	Concept *apiHandler.ConceptHandler
	Idea    *apiHandler.IdeaHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	// Concept context
	api.POST("/concepts", authMiddleware(handlers.Concept.Evaluate))
	api.GET("/concepts/{id}", authMiddleware(handlers.Concept.Get))
	api.POST("/concepts/{id}/evaluation", authMiddleware(handlers.Concept.Reevaluate))
	api.POST("/concepts/{id}/accept", authMiddleware(handlers.Concept.Accept))

	// Idea context
	api.GET("/ideas/{id}", authMiddleware(handlers.Idea.Get))
	api.GET("/ideas/{id}/target-audiences", authMiddleware(handlers.Idea.TargetAudiences))
	api.POST("/ideas/{id}/archive", authMiddleware(handlers.Idea.Archive))
	api.PUT("/ideas/{id}/positioning", authMiddleware(handlers.Idea.Position))
	api.POST("/ideas/{id}/social-media-campaigns", authMiddleware(handlers.Idea.RequestCampaigns))
	api.GET("/ideas/{id}/social-media-campaigns", authMiddleware(handlers.Idea.Campaigns))

	return r
}
