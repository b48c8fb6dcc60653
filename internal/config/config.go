package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	JWTSecret string
	// RequireAuth gates the teacher-facing routes (create-exam, submissions,
	// grade, exams list) behind a bearer token. Off by default to match the
	// open-access behavior the frontend was built against.
	RequireAuth bool

	// SelfPingURL, when set, is fetched every 10 minutes to keep the process
	// warm on hosts that sleep idle services.
	SelfPingURL string

	CORSOrigins []string
}

func FromEnv() Config {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debug("no .env file, reading from system environment")
	}
	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8000"),
		DBDriver:    envOr("DB_DRIVER", "sqlite"),
		DBDSN:       envOr("DB_DSN", ""),
		JWTSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		RequireAuth: envBool("REQUIRE_AUTH", false),
		SelfPingURL: os.Getenv("SELF_PING_URL"),
		CORSOrigins: csvOr("CORS_ORIGINS", "*"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
