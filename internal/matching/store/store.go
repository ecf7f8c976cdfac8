package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindClient(ctx context.Context, rawDescription string) (*uuid.UUID, error) {
	query := `
		SELECT client_id
		FROM payer_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var clientID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding payer mapping: %w", err)
	}

	return &clientID, nil
}

// CreateMapping stores the mapping, replacing the client of an existing pattern.
func (s *Store) CreateMapping(ctx context.Context, rawPattern string, clientID uuid.UUID) error {
	query := `
		INSERT INTO payer_mappings (raw_pattern, client_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (raw_pattern) DO UPDATE SET client_id = EXCLUDED.client_id, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, clientID); err != nil {
		return fmt.Errorf("creating payer mapping: %w", err)
	}

	return nil
}
