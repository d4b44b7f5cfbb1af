package main

import (
	"context"
	"log"
	"os"

	"robolab/app"
	"robolab/db"
	"robolab/routes"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}

	application := app.MustNew()
	defer application.Close()

	repo := db.NewRepo(application.DB)
	if err := app.Bootstrap(context.Background(), application, repo); err != nil {
		application.Log.Fatalw("bootstrap failed", "err", err)
	}

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	application.Log.Infof("listening on :%s", port)
	_ = r.Run(":" + port)
}
