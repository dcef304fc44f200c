package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything main needs to wire the service. All values come
// from the environment, optionally seeded from a .env file.
type Config struct {
	ListenAddr string

	DBDriver string
	DBDSN    string

	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	APIUser         string
	APIPasswordHash string

	FriendPageSize  int
	FriendPageLimit int
}

// Load reads the configuration from the environment. A .env file is used
// when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:        getenv("LISTEN_ADDR", ":5001"),
		DBDriver:          getenv("DB_DRIVER", "sqlite"),
		DBDSN:             getenv("DB_DSN", "./checktwfriends.db"),
		ConsumerKey:       os.Getenv("CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("CONSUMER_SECRET"),
		AccessToken:       os.Getenv("ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		APIUser:           os.Getenv("API_USER"),
		APIPasswordHash:   os.Getenv("API_PASSWORD_HASH"),
		FriendPageSize:    getenvInt("FRIEND_PAGE_SIZE", 100),
		FriendPageLimit:   getenvInt("FRIEND_PAGE_LIMIT", 400),
	}

	for name, value := range map[string]string{
		"CONSUMER_KEY":        cfg.ConsumerKey,
		"CONSUMER_SECRET":     cfg.ConsumerSecret,
		"ACCESS_TOKEN":        cfg.AccessToken,
		"ACCESS_TOKEN_SECRET": cfg.AccessTokenSecret,
		"API_USER":            cfg.APIUser,
		"API_PASSWORD_HASH":   cfg.APIPasswordHash,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	return cfg, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
