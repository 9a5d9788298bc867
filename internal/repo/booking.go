package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// BookingRepo defines the persistence operations for bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// ListByUserPaged returns one page of the user's bookings ordered by
	// created_at descending, plus the total count across all pages.
	ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

// Create inserts a new booking row and returns the full persisted record.
func (r *pgBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (user_id, destination_id, travel_date, guests, total_price)
		VALUES (@user_id, @destination_id, @travel_date, @guests, @total_price)
		RETURNING id, user_id, destination_id, travel_date, guests, total_price, created_at`

	args := pgx.NamedArgs{
		"user_id":        booking.UserID,
		"destination_id": booking.DestinationID,
		"travel_date":    booking.TravelDate,
		"guests":         booking.Guests,
		"total_price":    booking.TotalPrice,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

// ListByUserPaged returns one page of bookings for a user, newest first.
func (r *pgBookingRepo) ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const countQ = `SELECT COUNT(*) FROM bookings WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUserPaged: count: %w", err)
	}

	const q = `
		SELECT id, user_id, destination_id, travel_date, guests, total_price, created_at
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC
		OFFSET @offset LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"offset":  p.Offset(),
		"limit":   p.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUserPaged: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUserPaged: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUserPaged: rows: %w", err)
	}

	return bookings, total, nil
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b      domain.Booking
		id     pgtype.UUID
		userID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &userID, &b.DestinationID, &date, &b.Guests, &b.TotalPrice, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.TravelDate = date.Time
	return b, nil
}
