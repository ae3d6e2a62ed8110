package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

func New() Config {
	return Config{
		BasePath: requireEnv("BASE_PATH"),
		UIURL:    requireEnv("UI_URL"),
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: Redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		SMTP: smtp{
			Host:     requireEnv("SMTP_HOST"),
			Port:     requireEnvAsInt("SMTP_PORT"),
			Username: requireEnv("SMTP_USERNAME"),
			Password: requireEnv("SMTP_PASSWORD"),
			From:     requireEnv("SMTP_FROM"),
		},
		Geocoder: geocoder{
			URL:    requireEnv("GEOCODER_URL"),
			APIKey: requireEnv("GEOCODER_API_KEY"),
		},
		JaegerURL:                   os.Getenv("JAEGER_URL"),
		RegionAllowList:             envAsListOrDefault("REGION_ALLOW_LIST", defaultRegionAllowList),
		RecurrenceHorizonMonths:     envAsIntOrDefault("RECURRENCE_HORIZON_MONTHS", 3),
		PrivateKey:                  requireEnvAsPrivateKey("PRIVATE_KEY"),
		RefreshTokenSecretKey:       requireEnv("REFRESH_TOKEN_SECRET_KEY"),
		AccessTokenExpirationSecs:   requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
		RefreshTokenExpirationSecs:  requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
		RefreshTokenRememberMeSecs:  requireEnvAsInt("REFRESH_TOKEN_REMEMBER_ME_EXPIRATION_IN_SECONDS"),
		AdminUser: adminUser{
			Email:    requireEnv("ADMIN_EMAIL"),
			Password: requireEnv("ADMIN_PASSWORD"),
		},
	}
}

// defaultRegionAllowList holds the New England state codes served by default.
var defaultRegionAllowList = []string{"CT", "MA", "ME", "NH", "RI", "VT"}

type Config struct {
	BasePath                   string
	UIURL                      string
	Postgresql                 Postgresql
	Redis                      Redis
	SMTP                       smtp
	Geocoder                   geocoder
	JaegerURL                  string
	RegionAllowList            []string
	RecurrenceHorizonMonths    int
	PrivateKey                 *rsa.PrivateKey
	RefreshTokenSecretKey      string
	AccessTokenExpirationSecs  int
	RefreshTokenExpirationSecs int
	RefreshTokenRememberMeSecs int
	AdminUser                  adminUser
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host string
	Port int
}

func (r Redis) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type smtp struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type geocoder struct {
	URL    string
	APIKey string
}

type adminUser struct {
	Email    string
	Password string
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func envAsIntOrDefault(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func envAsListOrDefault(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func requireEnvAsPrivateKey(key string) *rsa.PrivateKey {
	block, _ := pem.Decode([]byte(requireEnv(key)))
	if block == nil {
		log.Fatalf("Can't decode PEM block from environment variable: %s\n", key)
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		log.Fatalf("Can't parse private key: %s", err.Error())
	}
	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		log.Fatalf("Private key isn't an RSA key: %s\n", key)
	}
	return privateKey
}
