package repository

import (
	"database/sql"
	"fmt"
	"sjdportal/models"
)

// AccountRepository handles database operations for the role registry
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByEmail retrieves an account by email (login lookup).
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := `
		SELECT account_id, role, name, email, password_hash, district, created_at
		FROM accounts
		WHERE email = ?
	`

	var account models.Account
	err := r.db.QueryRow(query, email).Scan(
		&account.AccountID,
		&account.Role,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.District,
		&account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &account, nil
}

// RoleExists reports whether an account of the given role and id exists.
// Forward target validation goes through here.
func (r *AccountRepository) RoleExists(role models.ActorRole, id int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM accounts WHERE account_id = ? AND role = ?`,
		id, role,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return count > 0, nil
}

// GetName returns the display name for an account id, or "" when the account
// is missing (display-only lookup; absence is not an error).
func (r *AccountRepository) GetName(id int64) (string, error) {
	var name string
	err := r.db.QueryRow(`SELECT name FROM accounts WHERE account_id = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account name: %w", err)
	}
	return name, nil
}

// CreateAccount inserts an account row (used by schema seeding).
func (r *AccountRepository) CreateAccount(account *models.Account) error {
	result, err := r.db.Exec(`
		INSERT INTO accounts (role, name, email, password_hash, district)
		VALUES (?, ?, ?, ?, ?)
	`,
		account.Role,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.District,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	accountID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account ID: %w", err)
	}

	account.AccountID = accountID
	return nil
}
