package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cast"
)

type Config struct {
	Port           int
	DatabaseURL    string
	RedisAddr      string
	JWTSecret      string
	MigrationsPath string
	WikidataURL    string
	RecommenderURL string
	SearchCacheTTL int // seconds
	EntityCacheTTL int // seconds
	AiringRefresh  string // cron spec
}

func Load() *Config {
	return &Config{
		Port:           envInt("PORT", 8080),
		DatabaseURL:    env("DATABASE_URL", "postgres://sceneit:sceneit@db:5432/sceneit?sslmode=disable"),
		RedisAddr:      env("REDIS_ADDR", "redis:6379"),
		JWTSecret:      env("JWT_SECRET", "change-me-in-production"),
		MigrationsPath: env("MIGRATIONS_PATH", "migrations"),
		WikidataURL:    env("WIKIDATA_URL", "https://www.wikidata.org/w/api.php"),
		RecommenderURL: env("RECOMMENDER_URL", ""),
		SearchCacheTTL: envInt("SEARCH_CACHE_TTL", 3600),
		EntityCacheTTL: envInt("ENTITY_CACHE_TTL", 86400),
		AiringRefresh:  env("AIRING_REFRESH_CRON", "15 4 * * *"),
	}
}

// MergeFromDB overlays values from the settings table so operators can tune
// the service without a restart loop. Missing table is not an error during
// first boot.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "recommender_url":
			c.RecommenderURL = value
		case "wikidata_url":
			c.WikidataURL = value
		case "search_cache_ttl":
			if v := cast.ToInt(value); v > 0 {
				c.SearchCacheTTL = v
			}
		case "entity_cache_ttl":
			if v := cast.ToInt(value); v > 0 {
				c.EntityCacheTTL = v
			}
		case "airing_refresh_cron":
			c.AiringRefresh = value
		}
	}
}

func (c *Config) RecommenderEnabled() bool {
	return c.RecommenderURL != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
