// Command token prints a bearer token for an API client of /quotes.
//
// Usage:
//
//	token -sub dashboard -ttl 720h
//
// The token is signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market_data/internal/app/config"
	jwtmw "market_data/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "", "client name stored as the token subject")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := jwtmw.NewGenerator(cfg.JWTSecret, *ttl).GenerateToken(*sub)
	if err != nil {
		slog.Error("generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
