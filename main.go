package main

import (
	"time"

	"github.com/qiume/talkwall/config"
	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/routes"
	"github.com/qiume/talkwall/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Session{}, &models.Post{}, &models.Comment{})

	r := routes.SetupRouter(db, cfg)

	// Periodic hygiene pass over expired sessions (lazy expiry already
	// guards correctness on every request)
	utils.StartSessionSweeper(db, time.Duration(cfg.SessionSweepMinutes)*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
