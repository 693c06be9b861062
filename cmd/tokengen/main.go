package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/crewpay/backend/internal/infrastructure/auth"
	"github.com/crewpay/backend/internal/infrastructure/config"
	"github.com/google/uuid"
)

// tokengen mints a bearer token for a known user ID. Authentication is
// handled outside this service, so this is the ops path for issuing API
// credentials and for poking the API during development.
func main() {
	var (
		userID   string
		username string
		isAdmin  bool
	)

	flag.StringVar(&userID, "user", "", "User ID (UUID, required)")
	flag.StringVar(&username, "username", "", "Username embedded in the token (required)")
	flag.BoolVar(&isAdmin, "admin", false, "Issue an admin token")
	flag.Parse()

	if userID == "" || username == "" {
		fmt.Fprintln(os.Stderr, "Usage: tokengen -user <uuid> -username <name> [-admin]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid user ID %q: %v\n", userID, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt.secret is not configured")
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	token, expiresAt, err := jwtService.GenerateToken(id, username, isAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires: %s\n", expiresAt.Format("2006-01-02T15:04:05Z07:00"))
}
