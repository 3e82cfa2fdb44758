package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/shared"
)

// AccountRepository implements [models.Repository] for [models.Account] persistence.
//
// It also implements the session layer's account store contract:
// [AccountRepository.FindAccountByUserID] and [AccountRepository.UpdateCredential].
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, sequence, user_id, provider, provider_account_id,
	access_token, refresh_token, expires_at, scope, created_at, updated_at, deleted_at`

// Create inserts a new account into the database with generated ID and sequence.
//
// An existing row for the same (provider, provider_account_id) identity is
// replaced: re-linking an account after a fresh authorization overwrites the
// old token triple instead of failing on the unique constraint.
func (r *AccountRepository) Create(account *models.Account) error {
	sequence, err := NextSequence(r.db, "accounts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	account.SetID(id)

	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cred := account.Credential()

	query := `
		INSERT INTO accounts (id, sequence, user_id, provider, provider_account_id,
			access_token, refresh_token, expires_at, scope, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, provider_account_id) DO UPDATE SET
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			scope = excluded.scope,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`

	_, err = r.db.Exec(query, id, sequence, account.UserID(), account.Provider(), account.ProviderAccountID(),
		cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, account.Scope(), account.CreatedAt(), account.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Get retrieves an account by ID, excluding soft-deleted accounts
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE id = ? AND deleted_at IS NULL
	`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return account, nil
}

// Update modifies an existing account in the database
func (r *AccountRepository) Update(account *models.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	account.SetUpdatedAt(now)

	cred := account.Credential()

	query := `
		UPDATE accounts
		SET user_id = ?, access_token = ?, refresh_token = ?, expires_at = ?, scope = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, account.UserID(), cred.AccessToken, cred.RefreshToken, cred.ExpiresAt,
		account.Scope(), now, account.ID())
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, account.ID())
	}

	return nil
}

// Delete soft-deletes an account by ID
func (r *AccountRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE accounts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, id)
	}

	return nil
}

// List retrieves all accounts matching the given criteria, excluding soft-deleted accounts
func (r *AccountRepository) List(criteria map[string]any) ([]*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE deleted_at IS NULL
	`, accountColumns)

	args := []any{}

	if provider, ok := criteria["provider"].(string); ok && provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}
	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

// FindAccountByUserID returns the account linked to the given user, or
// [shared.ErrAccountNotFound] when no such account exists.
func (r *AccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
		LIMIT 1
	`, accountColumns)

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", shared.ErrAccountNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return account, nil
}

// UpdateCredential persists a refreshed token triple for the account identified
// by (provider, providerAccountID).
//
// The three fields move in a single UPDATE so readers never observe a new
// access token alongside a stale expiry.
func (r *AccountRepository) UpdateCredential(ctx context.Context, provider, providerAccountID string, cred models.Credential) error {
	query := `
		UPDATE accounts
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = ?
		WHERE provider = ? AND provider_account_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt,
		time.Now(), provider, providerAccountID)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s/%s", shared.ErrAccountNotFound, provider, providerAccountID)
	}

	return nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		id                string
		sequence          int
		userID            string
		provider          string
		providerAccountID string
		accessToken       string
		refreshToken      sql.NullString
		expiresAt         sql.NullInt64
		scope             string
		createdAt         time.Time
		updatedAt         time.Time
		deletedAt         sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &provider, &providerAccountID,
		&accessToken, &refreshToken, &expiresAt, &scope, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	account := models.NewAccount(sequence, userID, provider, providerAccountID)
	account.SetID(id)
	account.SetScope(scope)
	account.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		account.SetDeletedAt(&deletedAt.Time)
	}

	cred := models.Credential{AccessToken: accessToken}
	if refreshToken.Valid {
		cred.RefreshToken = &refreshToken.String
	}
	if expiresAt.Valid {
		cred.ExpiresAt = &expiresAt.Int64
	}
	account.SetCredential(cred)

	return account, nil
}
