package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
)

func main() {
	role := flag.String("role", models.RoleAdmin, "role to assign (Student, Organization, Admin, Other)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: promote-admin [-role Admin] <email>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if !models.IsValidRole(*role) {
		log.Fatalf("Unknown role: %s", *role)
	}

	email := strings.ToLower(strings.TrimSpace(flag.Arg(0)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE email = $2
	`, *role, email)
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if result.RowsAffected() == 0 {
		log.Fatalf("No user found with email: %s", email)
	}

	fmt.Printf("Successfully set role of %s to %s\n", email, *role)
}
