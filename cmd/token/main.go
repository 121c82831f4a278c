// Command token mints a chat API bearer token for a phone number.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/config"
)

func main() {
	phone := flag.String("phone", "", "phone number the token is issued for")
	name := flag.String("name", "", "display name stored on first contact")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	allowed, err := cfg.AllowedNumbers()
	if err != nil {
		slog.Error("failed to parse allowed numbers", "error", err)
		os.Exit(1)
	}

	if !auth.NewAllowList(allowed).Allowed(*phone) {
		slog.Warn("number is not on the allow list; the API will reject it", "phone", *phone)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}

	token, err := tokens.Issue(*phone, *name)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
