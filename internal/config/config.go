package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	DBName    string
	AppPort   string
	AppEnv    string
	SecretKey string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:  os.Getenv("MONGO_URI"),
		DBName:    os.Getenv("DB_NAME"),
		AppPort:   os.Getenv("APP_PORT"),
		AppEnv:    os.Getenv("APP_ENV"),
		SecretKey: os.Getenv("SECRET_KEY"),
	}

	if cfg.MongoURI == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.DBName == "" {
		cfg.DBName = "pulperia"
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}

	return cfg
}
