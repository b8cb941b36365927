// scripts/create_admin crea el usuario coordinador inicial.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	database.Connect(cfg)

	username := os.Getenv("ADMIN_USER")
	if username == "" {
		username = "coordinador"
	}
	password := os.Getenv("ADMIN_PASS")
	if password == "" {
		password = "cambiar123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("el usuario ya existe:", username)
		os.Exit(0)
	}

	u := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         "coordinador",
		Name:         "Coordinación Académica",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert user: %v", err)
	}

	fmt.Println("usuario coordinador creado")
	fmt.Println("   usuario:   ", username)
	fmt.Println("   contraseña:", password, "(cambiarla después del primer ingreso)")
}
