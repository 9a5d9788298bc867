// Package repo contains all database access logic for the Wayfarer API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// UserRepo defines the persistence operations for user accounts and their
// wishlist/visited membership sets.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record (with
	// DB-generated id and created_at populated, membership sets empty).
	// Returns domain.ErrConflict when the email or username is taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user with both membership sets loaded.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail retrieves a user (membership sets included) by email.
	// The PasswordHash field is populated for credential checks.
	// Returns domain.ErrNotFound if no user with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// ToggleWishlist adds destinationID to the user's wishlist when
	// currently is false and removes it when currently is true. Both
	// directions are idempotent, matching the toggle contract of the
	// planner core.
	ToggleWishlist(ctx context.Context, userID uuid.UUID, destinationID string, currently bool) error

	// ToggleVisited is the visited-set counterpart of ToggleWishlist.
	ToggleVisited(ctx context.Context, userID uuid.UUID, destinationID string, currently bool) error
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

// Create inserts a new user row and returns the full persisted record.
func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, username, email, password_hash)
		VALUES (@name, @username, @email, @password_hash)
		RETURNING id, name, username, email, password_hash, created_at`

	args := pgx.NamedArgs{
		"name":          user.Name,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	result.Wishlist = []string{}
	result.Visited = []string{}
	return result, nil
}

// GetByID retrieves a user by primary key, membership sets included.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT id, name, username, email, password_hash, created_at
		FROM users
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	if err := r.loadMemberships(ctx, &user); err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, membership sets included.
func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT id, name, username, email, password_hash, created_at
		FROM users
		WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	if err := r.loadMemberships(ctx, &user); err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return user, nil
}

// ToggleWishlist flips wishlist membership.
func (r *pgUserRepo) ToggleWishlist(ctx context.Context, userID uuid.UUID, destinationID string, currently bool) error {
	if err := r.toggleMembership(ctx, "user_wishlist", userID, destinationID, currently); err != nil {
		return fmt.Errorf("repo.UserRepo.ToggleWishlist: %w", err)
	}
	return nil
}

// ToggleVisited flips visited membership.
func (r *pgUserRepo) ToggleVisited(ctx context.Context, userID uuid.UUID, destinationID string, currently bool) error {
	if err := r.toggleMembership(ctx, "user_visited", userID, destinationID, currently); err != nil {
		return fmt.Errorf("repo.UserRepo.ToggleVisited: %w", err)
	}
	return nil
}

// toggleMembership inserts or deletes a (user_id, destination_id) row in the
// named membership table. Insert uses ON CONFLICT DO NOTHING and delete
// tolerates a missing row, so both directions are idempotent.
// The table name is always one of the two compile-time constants above,
// never caller input.
func (r *pgUserRepo) toggleMembership(ctx context.Context, table string, userID uuid.UUID, destinationID string, currently bool) error {
	args := pgx.NamedArgs{"user_id": userID, "destination_id": destinationID}

	if currently {
		q := `DELETE FROM ` + table + ` WHERE user_id = @user_id AND destination_id = @destination_id`
		_, err := r.db.Exec(ctx, q, args)
		return err
	}

	q := `INSERT INTO ` + table + ` (user_id, destination_id)
		VALUES (@user_id, @destination_id)
		ON CONFLICT (user_id, destination_id) DO NOTHING`
	_, err := r.db.Exec(ctx, q, args)
	return err
}

// loadMemberships fills in the wishlist and visited sets for a user.
// Both are always non-nil so callers can treat them as sets directly.
func (r *pgUserRepo) loadMemberships(ctx context.Context, user *domain.User) error {
	var err error
	user.Wishlist, err = r.listMembership(ctx, "user_wishlist", user.ID)
	if err != nil {
		return err
	}
	user.Visited, err = r.listMembership(ctx, "user_visited", user.ID)
	return err
}

func (r *pgUserRepo) listMembership(ctx context.Context, table string, userID uuid.UUID) ([]string, error) {
	q := `SELECT destination_id FROM ` + table + ` WHERE user_id = @user_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser maps a single database row into a domain.User (without membership
// sets — see loadMemberships).
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
