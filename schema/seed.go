package schema

import (
	"database/sql"
	"log"
	"sjdportal/utils"
)

// SeedSuperadmin creates the superadmin account on first boot if no account
// with that email exists. A blank password disables seeding.
func SeedSuperadmin(db *sql.DB, email, password string) {
	if password == "" {
		log.Println("[SCHEMA] SEED_ADMIN_PASSWORD not set, skipping superadmin seed")
		return
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE email = ?`, email).Scan(&count); err != nil {
		log.Fatalf("[SCHEMA] Failed to check superadmin account: %v", err)
	}
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("[SCHEMA] Failed to hash superadmin password: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO accounts (role, name, email, password_hash)
		VALUES ('superadmin', 'Superadmin', ?, ?)
	`, email, hash); err != nil {
		log.Fatalf("[SCHEMA] Failed to seed superadmin: %v", err)
	}
	log.Printf("[SCHEMA] seeded superadmin account %s", email)
}
