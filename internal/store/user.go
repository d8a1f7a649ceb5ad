package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mindora.app/gateway/internal/model"
)

const getUserByExternalID = `
SELECT id, external_id, name, email, created_at, updated_at
FROM users
WHERE external_id = $1
`

type userStore struct {
	db DBTX
}

func newUserStore(db DBTX) UserStore {
	return &userStore{db: db}
}

func (s *userStore) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, getUserByExternalID, externalID).Scan(
		&u.ID,
		&u.ExternalID,
		&u.Name,
		&u.Email,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user by external id: %w", err)
	}
	return &u, nil
}
