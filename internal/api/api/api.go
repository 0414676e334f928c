package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"gameday/cmd/middleware"
	"gameday/internal/service"
)

type Routers struct {
	Service    service.Service
	AdminToken string
	MediaDir   string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/api")

	apiGroup.GET("/health", func(c *ginext.Context) {
		c.JSON(200, map[string]string{"status": "ok"})
	})

	apiGroup.POST("/register", r.Service.Register)
	apiGroup.POST("/game-result", r.Service.SubmitResult)
	apiGroup.GET("/played-games", r.Service.PlayedGames)

	apiGroup.GET("/stats", r.Service.Stats)
	apiGroup.GET("/team-stats", r.Service.TeamStats)
	apiGroup.GET("/team-total-stats", r.Service.TeamTotalStats)

	apiGroup.GET("/teams", r.Service.Teams)
	apiGroup.GET("/questions", r.Service.Questions)

	admin := apiGroup.Group("/admin", middleware.AdminAuth(r.AdminToken))
	admin.POST("/reset-results", r.Service.ResetResults)
	admin.POST("/teams", r.Service.UpsertTeam)
	admin.PUT("/teams/:name", r.Service.RenameTeam)
	admin.DELETE("/teams/:name", r.Service.DeleteTeam)
	admin.GET("/questions", r.Service.AdminQuestions)
	admin.POST("/questions", r.Service.CreateQuestion)
	admin.PUT("/questions/:id", r.Service.UpdateQuestion)
	admin.DELETE("/questions/:id", r.Service.DeleteQuestion)

	app.Static("/media", r.MediaDir)

	return app
}
