package routes

import (
	"net/http"
	"time"

	"github.com/IbrahimFattah/hisabcal/controllers"
	"github.com/IbrahimFattah/hisabcal/middlewares"
	"github.com/IbrahimFattah/hisabcal/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Everything else requires a valid token
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/settings", controllers.GetSettings)
		api.PUT("/settings", controllers.UpdateSettings)

		api.GET("/profile", controllers.GetProfile)
		api.PUT("/profile", controllers.UpsertProfile)
		api.POST("/profile/target", controllers.ComputeTarget)
		api.POST("/profile/weight", controllers.LogWeight)
		api.GET("/profile/weight", controllers.GetWeightHistory)

		api.GET("/foods", controllers.ListFoods)
		api.POST("/foods", controllers.CreateFood)
		api.PUT("/foods/:id", controllers.UpdateFood)
		api.DELETE("/foods/:id", controllers.DeleteFood)

		api.GET("/meals", controllers.ListMeals)
		api.POST("/meals", controllers.LogMeal)
		api.DELETE("/meals/:id", controllers.DeleteMeal)

		api.GET("/bank", controllers.GetBankAccount)
		api.GET("/bank/transactions", controllers.ListTransactions)
		api.POST("/bank/earn", controllers.EarnPoints)
		api.POST("/bank/withdraw", controllers.WithdrawPoints)

		api.GET("/pots", controllers.ListPots)
		api.POST("/pots", controllers.CreatePot)
		api.POST("/pots/:id/allocate", controllers.AllocateToPot)
		api.POST("/pots/:id/redeem", controllers.RedeemPot)
		api.DELETE("/pots/:id", controllers.DeletePot)

		api.GET("/xp", controllers.GetXP)
		api.GET("/achievements", controllers.GetAchievements)

		rc := controllers.NewRealtimeController(hub)
		api.GET("/ws/events", rc.EventsWS)
	}

	return r
}
