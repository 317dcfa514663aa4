package main

import (
	"log"
	"os"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/routes"
	"github.com/IbrahimFattah/hisabcal/services"
)

func main() {
	config.InitLogger()
	config.InitDB()

	if err := services.SeedAchievements(config.DB); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}
	if err := services.SeedFoods(config.DB); err != nil {
		log.Fatalf("Failed to seed food catalog: %v", err)
	}

	hub := services.NewRealtimeHub()
	services.InitEventBus(config.DB, hub, services.HandleGamificationEvent)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(hub)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
