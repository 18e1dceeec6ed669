package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tjfontaine/interview-coach/internal/adapters/auth/jwt"
	"github.com/tjfontaine/interview-coach/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/tokengen <user-id> [scope...]")
		fmt.Println("Issues a bearer token signed with auth.secret from config.yaml or COACH_AUTH__SECRET")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.Secret == "" {
		fmt.Fprintln(os.Stderr, "auth.secret is not set")
		os.Exit(1)
	}

	provider, err := jwt.NewProvider(cfg.Auth.Secret,
		jwt.WithIssuer(cfg.Auth.Issuer),
		jwt.WithTTL(cfg.Auth.TTL),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create token provider: %v\n", err)
		os.Exit(1)
	}

	userID := os.Args[1]
	token, err := provider.Issue(userID, os.Args[2:]...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User: %s\n", userID)
	fmt.Printf("Expires: %s\n", time.Now().Add(cfg.Auth.TTL).Format(time.RFC3339))
	fmt.Printf("Token: %s\n", token)
	fmt.Println("\nSend it as:")
	fmt.Printf("  Authorization: Bearer %s\n", token)
}
