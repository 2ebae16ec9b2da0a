// Command seed provisions a fresh database with the first admin account and
// the default configuration entries the public site expects.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/tez-capital/cms-api/internal/models"
	"github.com/tez-capital/cms-api/internal/repository"
	"github.com/tez-capital/cms-api/pkg/config"
	"github.com/tez-capital/cms-api/pkg/database"
)

func main() {
	var (
		email    string
		password string
		fullName string
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "admin@tez-capital.co.id", "Email of the initial superadmin account")
	flag.StringVar(&password, "password", "", "Password of the initial superadmin account (required)")
	flag.StringVar(&fullName, "name", "Super Admin", "Display name of the initial superadmin account")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout for the seed run")
	flag.Parse()

	if password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	created, err := seedAdmin(ctx, db, email, password, fullName)
	if err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	if created {
		fmt.Printf("created superadmin %s\n", email)
	} else {
		fmt.Printf("superadmin %s already exists, skipped\n", email)
	}

	inserted, err := seedConfigurations(ctx, repository.NewConfigurationRepository(db))
	if err != nil {
		log.Fatalf("failed to seed configurations: %v", err)
	}
	fmt.Printf("ensured %d default configuration entries\n", inserted)
}

func seedAdmin(ctx context.Context, db *sqlx.DB, email, password, fullName string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, true, $6, $6)
        ON CONFLICT (email) DO NOTHING`
	res, err := db.ExecContext(ctx, query, uuid.NewString(), email, string(hash), fullName, models.RoleSuperAdmin, now)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func strPtr(s string) *string { return &s }

func seedConfigurations(ctx context.Context, repo *repository.ConfigurationRepository) (int, error) {
	defaults := []models.Configuration{
		{Key: "site_name", Value: "TEZ Capital & Finance", Type: models.ConfigTypeString, Group: models.ConfigGroupGeneral, Description: strPtr("Site title shown in the browser tab"), IsPublic: true},
		{Key: "default_language", Value: "id", Type: models.ConfigTypeString, Group: models.ConfigGroupLanguage, IsPublic: true},
		{Key: "maintenance_mode", Value: "false", Type: models.ConfigTypeBoolean, Group: models.ConfigGroupMaintenance, Description: strPtr("Hide the public site behind a maintenance page"), IsPublic: true},
		{Key: "contact_email", Value: "cs@tez-capital.co.id", Type: models.ConfigTypeEmail, Group: models.ConfigGroupContact, IsPublic: true},
		{Key: "contact_phone", Value: "021-000-0000", Type: models.ConfigTypeString, Group: models.ConfigGroupContact, IsPublic: true},
		{Key: "homepage_banners", Value: "[]", Type: models.ConfigTypeJSON, Group: models.ConfigGroupBanners, Description: strPtr("Rotating hero banners on the landing page"), IsPublic: true},
		{Key: "about_gallery", Value: "[]", Type: models.ConfigTypeJSON, Group: models.ConfigGroupAbout, IsPublic: true},
		{Key: "ojk_license_number", Value: "", Type: models.ConfigTypeString, Group: models.ConfigGroupOJK, IsPublic: true},
		{Key: "credit_simulation_note", Value: "", Type: models.ConfigTypeTextarea, Group: models.ConfigGroupCredit, IsPublic: true},
	}

	inserted := 0
	for i := range defaults {
		existing, err := repo.Get(ctx, defaults[i].Key)
		if err == nil && existing != nil {
			continue
		}
		if err := repo.Upsert(ctx, &defaults[i]); err != nil {
			return inserted, fmt.Errorf("upsert %s: %w", defaults[i].Key, err)
		}
		inserted++
	}
	return inserted, nil
}
