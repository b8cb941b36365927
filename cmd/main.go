package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/routes"
)

func main() {
	// .env opcional para desarrollo local
	_ = godotenv.Load()

	cfg := config.Load()

	// Si la DB no está arriba el programa falla de una (early fail).
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
