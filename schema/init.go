// Package schema: safe database initialization — create only missing tables, never drop or overwrite.

package schema

import (
	"database/sql"
	"log"
	"time"
)

// InitializeDatabase ensures all tables exist, in dependency order:
// accounts → complaints → complaint_forwards/complaint_updates →
// tracking_sequences → visit_assignments → visit_reports. Creation is
// additive only; no table is ever dropped or recreated.
func InitializeDatabase(db *sql.DB) {
	tables := []struct {
		name   string
		create func(*sql.DB)
	}{
		{"accounts", createAccountsTable},
		{"complaints", createComplaintsTable},
		{"complaint_forwards", createComplaintForwardsTable},
		{"complaint_updates", createComplaintUpdatesTable},
		{"tracking_sequences", createTrackingSequencesTable},
		{"visit_assignments", createVisitAssignmentsTable},
		{"visit_reports", createVisitReportsTable},
	}

	for _, t := range tables {
		exists, err := tableExists(db, t.name)
		if err != nil {
			log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", t.name, err)
		}
		if exists {
			log.Printf("[SCHEMA] %s table exists", t.name)
			continue
		}
		t.create(db)
		log.Printf("[SCHEMA] created %s table", t.name)
	}

	ensureCurrentYearSequence(db)
}

// tableExists checks INFORMATION_SCHEMA for the table in the current database.
func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ensureCurrentYearSequence seeds the tracking counter row for the current
// year so the first allocation and the upsert path behave identically.
func ensureCurrentYearSequence(db *sql.DB) {
	year := time.Now().Year()
	if _, err := db.Exec(
		`INSERT IGNORE INTO tracking_sequences (year, seq) VALUES (?, 0)`, year,
	); err != nil {
		log.Fatalf("[SCHEMA] Failed to seed tracking sequence for %d: %v", year, err)
	}
}

func createAccountsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS accounts (
    account_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    role ENUM('citizen','officer','department','dm','superadmin') NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    district VARCHAR(100) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_accounts_role (role)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table accounts: %v", err)
	}
}

func createComplaintsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaints (
    complaint_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tracking_id VARCHAR(40) UNIQUE NOT NULL COMMENT 'SJD/<year>/CMP<seq>, public lookup key',
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    category VARCHAR(100) NULL,
    location TEXT NULL,
    source_type ENUM('Public','Officer') NOT NULL,
    citizen_id BIGINT NULL COMMENT 'Public variant: citizen account',
    citizen_name VARCHAR(255) NULL COMMENT 'Officer variant: unregistered citizen identity',
    citizen_mobile VARCHAR(15) NULL,
    citizen_dob VARCHAR(20) NULL,
    filed_by_officer_id BIGINT NULL,
    village VARCHAR(100) NULL,
    block VARCHAR(100) NULL,
    tehsil VARCHAR(100) NULL,
    district VARCHAR(100) NULL,
    state VARCHAR(100) NULL,
    pincode VARCHAR(10) NULL,
    landmark VARCHAR(255) NULL,
    status ENUM('Pending','In Progress','Forwarded','Resolved','Rejected') NOT NULL DEFAULT 'Pending',
    attachment_path VARCHAR(512) NULL,
    version BIGINT NOT NULL DEFAULT 1 COMMENT 'optimistic lock counter',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_complaints_citizen (citizen_id),
    INDEX idx_complaints_filed_by (filed_by_officer_id),
    INDEX idx_complaints_created (created_at),
    CONSTRAINT fk_complaints_citizen FOREIGN KEY (citizen_id) REFERENCES accounts(account_id),
    CONSTRAINT fk_complaints_filed_by FOREIGN KEY (filed_by_officer_id) REFERENCES accounts(account_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaints: %v", err)
	}
}

func createComplaintForwardsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaint_forwards (
    forward_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    forwarded_by_role ENUM('officer','department','dm','superadmin') NOT NULL,
    forwarded_by_id BIGINT NOT NULL,
    target_role ENUM('officer','department','dm') NOT NULL,
    target_id BIGINT NOT NULL,
    remarks TEXT NOT NULL,
    attachment_path VARCHAR(512) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_forwards_complaint (complaint_id),
    CONSTRAINT fk_forwards_complaint FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaint_forwards: %v", err)
	}
}

func createComplaintUpdatesTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaint_updates (
    update_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    updated_by_role ENUM('officer','department','dm','superadmin') NOT NULL,
    updated_by_id BIGINT NOT NULL,
    status ENUM('Pending','In Progress','Forwarded','Resolved','Rejected') NOT NULL,
    remarks TEXT NOT NULL,
    attachment_path VARCHAR(512) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_updates_complaint (complaint_id),
    CONSTRAINT fk_updates_complaint FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaint_updates: %v", err)
	}
}

func createTrackingSequencesTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS tracking_sequences (
    year INT PRIMARY KEY,
    seq BIGINT NOT NULL DEFAULT 0
) ENGINE=InnoDB`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table tracking_sequences: %v", err)
	}
}

func createVisitAssignmentsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS visit_assignments (
    assignment_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    dm_id BIGINT NOT NULL,
    officer_id BIGINT NOT NULL,
    district VARCHAR(100) NOT NULL,
    gram_panchayat VARCHAR(100) NOT NULL,
    village VARCHAR(100) NOT NULL,
    priority ENUM('Low','Medium','High') NOT NULL DEFAULT 'Medium',
    visit_date DATE NOT NULL,
    notes TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_visits_officer (officer_id),
    INDEX idx_visits_dm (dm_id),
    CONSTRAINT fk_visits_dm FOREIGN KEY (dm_id) REFERENCES accounts(account_id),
    CONSTRAINT fk_visits_officer FOREIGN KEY (officer_id) REFERENCES accounts(account_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table visit_assignments: %v", err)
	}
}

func createVisitReportsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS visit_reports (
    assignment_id BIGINT PRIMARY KEY COMMENT 'one report per assignment, overwritten on resubmission',
    actual_visit_date DATE NOT NULL,
    remarks TEXT NOT NULL,
    proof_path VARCHAR(512) NULL,
    complaints_found INT NOT NULL DEFAULT 0,
    complaints_solved INT NOT NULL DEFAULT 0,
    complaints_pending INT NOT NULL DEFAULT 0,
    complaints_forwarded INT NOT NULL DEFAULT 0,
    complaints_rejected INT NOT NULL DEFAULT 0,
    complaints_in_progress INT NOT NULL DEFAULT 0,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT fk_reports_assignment FOREIGN KEY (assignment_id) REFERENCES visit_assignments(assignment_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table visit_reports: %v", err)
	}
}
