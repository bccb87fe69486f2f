package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// DDL for the identity/entitlement tables. Statements are idempotent so
// the bootstrap can run on every start. Timestamps are DATETIME in UTC
// (the DSN pins loc=UTC).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(64) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_roles_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS subscription_plans (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name          VARCHAR(64) NOT NULL,
		price         DECIMAL(10,2) NOT NULL DEFAULT 0,
		duration_days INT NOT NULL DEFAULT 30,
		features      TEXT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_subscription_plans_name (name),
		CONSTRAINT chk_plan_price CHECK (price >= 0),
		CONSTRAINT chk_plan_duration CHECK (duration_days > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email               VARCHAR(255) NOT NULL,
		password_hash       VARCHAR(255) NULL,
		first_name          VARCHAR(50) NOT NULL DEFAULT '',
		last_name           VARCHAR(50) NOT NULL DEFAULT '',
		full_name           VARCHAR(120) NOT NULL DEFAULT '',
		company_name        VARCHAR(100) NOT NULL DEFAULT '',
		role_id             BIGINT UNSIGNED NOT NULL,
		oauth_provider      VARCHAR(32) NULL,
		oauth_id            VARCHAR(128) NULL,
		profile_picture_url VARCHAR(512) NULL,
		is_active           TINYINT(1) NOT NULL DEFAULT 1,
		is_verified         TINYINT(1) NOT NULL DEFAULT 0,
		created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_oauth (oauth_provider, oauth_id),
		KEY idx_users_role (role_id),
		CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_subscriptions (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		plan_id    BIGINT UNSIGNED NOT NULL,
		start_date DATETIME NOT NULL,
		end_date   DATETIME NOT NULL,
		active     TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		KEY idx_user_subscriptions_user (user_id, active, end_date),
		CONSTRAINT fk_user_subscriptions_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_user_subscriptions_plan FOREIGN KEY (plan_id) REFERENCES subscription_plans (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

type seedPlan struct {
	name     string
	price    float64
	duration int
	features string
}

// Seed values mirror the original deployment: the basic plan is free, the
// paid tiers unlock progressively more tool categories.
var (
	seedRoles = []string{"admin", "user", "finance", "network_ops", "fraud_team"}

	seedPlans = []seedPlan{
		{"basic", 0.0, 30, "basic_tools"},
		{"professional", 19.99, 30, "basic_tools,hr_tools,reviews,social_media"},
		{"enterprise", 49.99, 30, "basic_tools,hr_tools,reviews,social_media,legal,supply_chain"},
	}
)

// Migrate creates the identity tables and seeds the role and plan rows the
// auth flows depend on. Registration treats a missing "user" role as a fatal
// configuration fault, so seeding runs before the server accepts traffic.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	for _, name := range seedRoles {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO roles (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	for _, p := range seedPlans {
		res, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO subscription_plans (name, price, duration_days, features) VALUES (?,?,?,?)",
			p.name, p.price, p.duration, p.features)
		if err != nil {
			return fmt.Errorf("seed plan %s: %w", p.name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Printf("seeded subscription plan %q", p.name)
		}
	}
	return nil
}
