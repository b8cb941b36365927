package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// Umbrales de alerta Circular 120, en días vencidos.
	// Las dos variantes observadas del tablero usaban cortes distintos;
	// se fijan aquí en vez de quedar como literales en el código.
	AlertaModeradaDias int
	AlertaUrgenteDias  int

	// SMTP para avisos a instructores (vacío = deshabilitado).
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
	SiteURL  string

	UploadDir string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func Load() *Config {
	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "circular120"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		JWTSecret: get("JWT_SECRET", "dev-secret"),

		AlertaModeradaDias: getInt("ALERTA_MODERADA_DIAS", 30),
		AlertaUrgenteDias:  getInt("ALERTA_URGENTE_DIAS", 60),

		SMTPHost: get("SMTP_HOST", ""),
		SMTPPort: get("SMTP_PORT", "587"),
		SMTPUser: get("SMTP_USER", ""),
		SMTPPass: get("SMTP_PASS", ""),
		SMTPFrom: get("SMTP_FROM", "circular120@localhost"),
		SiteURL:  get("SITE_URL", ""),

		UploadDir: get("UPLOAD_DIR", os.TempDir()),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
