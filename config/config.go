package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string

	// JWT Settings
	JWTAccessSecret string
	JWTExpiration   string

	// Identity provider (RS256) settings
	ProviderPublicKeyPEM string
	ProviderIssuer       string
}

func LoadConfig() *Config {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{
		AppPort:     getEnv("PORT", "3004"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),
		JWTExpiration:   getEnv("JWT_EXPIRATION_TIME", "72h"),

		ProviderPublicKeyPEM: os.Getenv("PROVIDER_PUBLIC_KEY"),
		ProviderIssuer:       os.Getenv("PROVIDER_ISSUER"),
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
