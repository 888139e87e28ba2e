package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the idempotent bootstrap statements for the two tables
// this service owns.  receipts.user_id is unique (one receipt per
// user) and cascades on delete, so removing a user removes the
// receipt with it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name  VARCHAR(100)  NOT NULL,
		last_name   VARCHAR(100)  NOT NULL,
		email       VARCHAR(255)  NOT NULL,
		seat_number INT           NOT NULL,
		section     VARCHAR(16)   NOT NULL,
		created_at  DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		KEY idx_users_section (section)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id      BIGINT UNSIGNED NOT NULL,
		from_station VARCHAR(255)    NOT NULL,
		to_station   VARCHAR(255)    NOT NULL,
		price        DECIMAL(10,2)   NOT NULL,
		created_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_receipts_user (user_id),
		CONSTRAINT fk_receipts_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the users and receipts tables when they do not
// exist yet.  Statements are idempotent so this runs on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
