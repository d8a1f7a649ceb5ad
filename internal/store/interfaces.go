package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"mindora.app/gateway/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// DBTX is the part of pgx the stores need; *pgxpool.Pool satisfies it.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserStore defines the contract for user directory lookups.
// The directory is owned elsewhere; the gateway never writes to it.
type UserStore interface {
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
}
