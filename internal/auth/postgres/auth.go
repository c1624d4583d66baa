package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/hr-records/internal/auth"
	accountDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/account"
	"github.com/jmoiron/sqlx"
)

// Repository reads and writes accounts with sqlx. Queries are written with
// ? placeholders and rebound for the connected driver.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db: db,
	}
}

const accountColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at`

func (r *Repository) GetByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*auth.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM accounts WHERE username = ?`, username)
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM accounts WHERE email = ?`, email)
}

// CreateWithEmployee inserts the account and an empty employee profile owned
// by it. account.ID is set on success.
func (r *Repository) CreateWithEmployee(ctx context.Context, account *auth.Account, firstName, lastName string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	var accountID int64
	insertAccount := tx.Rebind(`INSERT INTO accounts (username, email, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	if err := tx.QueryRowxContext(ctx, insertAccount,
		account.Username, account.Email, account.PasswordHash, account.Role, account.IsActive, now, now,
	).Scan(&accountID); err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}

	var employeeID int64
	insertEmployee := tx.Rebind(`INSERT INTO employees (user_id, first_name, last_name, position, department, photo_url, phone, office_location, created_at, updated_at)
		VALUES (?, ?, ?, '', '', '', '', '', ?, ?) RETURNING id`)
	if err := tx.QueryRowxContext(ctx, insertEmployee, accountID, firstName, lastName, now, now).Scan(&employeeID); err != nil {
		return 0, fmt.Errorf("insert employee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	account.ID = accountID
	return employeeID, nil
}

func (r *Repository) GetEmployeeID(ctx context.Context, accountID int64) (int64, error) {
	var employeeID int64
	err := r.db.GetContext(ctx, &employeeID, r.db.Rebind(`SELECT id FROM employees WHERE user_id = ?`), accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, auth.ErrAccountNotFound
		}
		return 0, err
	}
	return employeeID, nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*auth.Account, error) {
	var row accountDatamodel.Account
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return &auth.Account{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		IsActive:     row.IsActive,
	}, nil
}

func (r *Repository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), arg); err != nil {
		return false, err
	}
	return count > 0, nil
}
