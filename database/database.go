package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate crea/actualiza el esquema. Separado de Connect para que las
// pruebas lo usen sobre SQLite en memoria.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Ficha{},
		&models.Aprendiz{},
		&models.Inasistencia{},
		&models.Competencia{},
		&models.ResultadoAprendizaje{},
		&models.AprendizResultado{},
		&models.ActaComite{},
		&models.User{},
	)
}
