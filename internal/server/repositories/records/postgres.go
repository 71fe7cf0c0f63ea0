package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/dbx"
	"github.com/passvault-io/passvault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.VaultRecord, error) {
	query := `
		SELECT id, user_id, data, salt, iv, created_at, updated_at FROM vault_records
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.VaultRecord, 0)
	for rows.Next() {
		rec := &models.VaultRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID,
			&rec.Envelope.Data, &rec.Envelope.Salt, &rec.Envelope.IV,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.VaultRecord, error) {
	query := `
		SELECT id, user_id, data, salt, iv, created_at, updated_at FROM vault_records
		WHERE id = $1
	`
	rec := &models.VaultRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.UserID,
		&rec.Envelope.Data, &rec.Envelope.Salt, &rec.Envelope.IV,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, env cryptox.Wire) (*models.VaultRecord, error) {
	query := `
		INSERT INTO vault_records (id, user_id, data, salt, iv)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, data, salt, iv, created_at, updated_at
	`
	rec := &models.VaultRecord{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, env.Data, env.Salt, env.IV).
		Scan(&rec.ID, &rec.UserID,
			&rec.Envelope.Data, &rec.Envelope.Salt, &rec.Envelope.IV,
			&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, env cryptox.Wire) (*models.VaultRecord, error) {
	query := `
		UPDATE vault_records
		SET data = $2, salt = $3, iv = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, data, salt, iv, created_at, updated_at
	`
	rec := &models.VaultRecord{}
	err := r.db.QueryRowContext(ctx, query, id, env.Data, env.Salt, env.IV).
		Scan(&rec.ID, &rec.UserID,
			&rec.Envelope.Data, &rec.Envelope.Salt, &rec.Envelope.IV,
			&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Delete is a conditional delete matching both id and owner. Callers cannot
// tell "absent" from "foreign" by the return value; that is intentional.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := `DELETE FROM vault_records WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}
