package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPoolNotInitialized means the binder was used before Connect() — a
// startup-ordering bug, not a per-request condition.
var ErrPoolNotInitialized = errors.New("database pool is not initialized")

// Querier is the subset of pgx used by repositories. Both pgx.Tx and
// *pgxpool.Pool satisfy it; the session binder decides which one a request
// actually gets.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Scope is the access level a request runs under. Row-level security policies
// read it back via current_setting('request.jwt.claim.sub'/'request.jwt.claim.role').
type Scope struct {
	UserID uuid.UUID
	Role   string
}

const (
	RoleAuthenticated = "authenticated"
	RoleAnonymous     = "anon"
)

// Anonymous is the scope for requests without a verified credential.
func Anonymous() Scope {
	return Scope{UserID: uuid.Nil, Role: RoleAnonymous}
}

// UserScope is the scope for a verified caller.
func UserScope(userID uuid.UUID, role string) Scope {
	if role == "" {
		role = RoleAuthenticated
	}
	return Scope{UserID: userID, Role: role}
}

// WithUserScope runs fn inside a transaction with row security enabled and the
// caller's claims bound as transaction-local session variables. set_config with
// is_local=true means the settings die with the transaction, so a pooled
// connection can never leak one caller's identity into the next request.
func (db *PostgresDB) WithUserScope(ctx context.Context, scope Scope, fn func(q Querier) error) error {
	if db.Pool == nil {
		return ErrPoolNotInitialized
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SET LOCAL row_security = on"); err != nil {
			return err
		}

		sub := ""
		role := RoleAnonymous
		if scope.UserID != uuid.Nil {
			sub = scope.UserID.String()
			role = scope.Role
		}
		if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claim.sub', $1, true)", sub); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claim.role', $1, true)", role); err != nil {
			return err
		}

		return fn(tx)
	})
}

// WithServiceScope runs fn inside a transaction with row security disabled.
// Reserved for operations that must cross ownership boundaries: decorating
// other owners' content with profiles, share-token lookup, the blob sweep.
func (db *PostgresDB) WithServiceScope(ctx context.Context, fn func(q Querier) error) error {
	if db.Pool == nil {
		return ErrPoolNotInitialized
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SET LOCAL row_security = off"); err != nil {
			return err
		}
		return fn(tx)
	})
}
