package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/auth"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/config"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/persistence"
	repo "github.com/Lucafivan/Ship-Operation-Systems/internal/interface/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

// Logs in against the container movement backend and stores the token pair in
// the MongoDB session store so the gateway can restore it on start.
func main() {
	email := flag.String("email", "", "backend account email (defaults to API_EMAIL)")
	password := flag.String("password", "", "backend account password (prompted when empty)")
	username := flag.String("username", "", "register this username before logging in")
	logout := flag.Bool("logout", false, "revoke and delete the stored session")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_DSN is required to store the session")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	store := repo.NewMongoSessionRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	session := auth.NewSession(cfg.APIBaseURL, cfg.APITimeout, store, log)

	if *logout {
		if err := session.Restore(ctx); err != nil {
			log.Fatal("No stored session", "error", err)
		}
		if err := session.Logout(ctx); err != nil {
			log.Fatal("Logout failed", "error", err)
		}
		fmt.Println("Session removed")
		return
	}

	if *email == "" {
		*email = cfg.APIEmail
	}
	if *email == "" {
		*email = prompt("Email: ")
	}
	if *password == "" {
		*password = cfg.APIPassword
	}
	if *password == "" {
		*password = prompt("Password: ")
	}

	if *username != "" {
		if err := session.Register(ctx, *username, *email, *password); err != nil {
			log.Fatal("Registration failed", "email", *email, "error", err)
		}
		fmt.Printf("Registered %s\n", *email)
	}

	if err := session.Login(ctx, *email, *password); err != nil {
		log.Fatal("Login failed", "email", *email, "error", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", session.Email(), session.UserRole())
	if token, err := session.Token(); err == nil && !token.Expiry.IsZero() {
		fmt.Printf("Access token expires at %s\n", token.Expiry.Format(time.RFC3339))
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
