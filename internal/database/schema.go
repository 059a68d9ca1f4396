package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the three tables in dependency order. Statements are
// idempotent so Migrate can run on every start when DB_AUTO_MIGRATE is set.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS guests (
		guest_id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(100) NOT NULL,
		email        VARCHAR(100) NOT NULL,
		phone_number VARCHAR(15)  NOT NULL,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_guests_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		room_number VARCHAR(10)  NOT NULL,
		room_name   VARCHAR(100) NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_rooms_number (room_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		reservation_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		room_id        BIGINT UNSIGNED NOT NULL,
		guest_id       BIGINT UNSIGNED NOT NULL,
		check_in_date  DATE NOT NULL,
		check_out_date DATE NOT NULL,
		status         VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_room_dates (room_id, check_in_date, check_out_date),
		KEY idx_reservations_dates (check_in_date, check_out_date),
		KEY idx_reservations_guest (guest_id),
		CONSTRAINT fk_reservations_room  FOREIGN KEY (room_id)  REFERENCES rooms (room_id)   ON DELETE CASCADE,
		CONSTRAINT fk_reservations_guest FOREIGN KEY (guest_id) REFERENCES guests (guest_id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
