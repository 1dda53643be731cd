// Package repo contains all database access logic for the roster board.
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

	"github.com/dralexander0805/avg/internal/domain"
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

// FlightRepo defines the persistence operations for flight records.
// The service and sync layers depend on this interface, not the concrete
// Postgres implementation, which allows them to be unit-tested with mocks.
type FlightRepo interface {
	// Create inserts a new flight and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, flight domain.Flight) (domain.Flight, error)

	// GetByID retrieves a single flight by its UUID primary key.
	// Returns domain.ErrNotFound if no flight with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Flight, error)

	// List returns the full collection ordered by flight_number ascending.
	List(ctx context.Context) ([]domain.Flight, error)

	// UpdateFields overwrites the four flight fields of an existing record,
	// leaving signed_up_users untouched. Returns domain.ErrNotFound if no
	// flight with that ID exists.
	UpdateFields(ctx context.Context, id uuid.UUID, input domain.FlightInput) (domain.Flight, error)

	// SetSignups replaces the signed_up_users sequence wholesale.
	// Returns domain.ErrNotFound if no flight with that ID exists.
	SetSignups(ctx context.Context, id uuid.UUID, signedUpUsers []string) (domain.Flight, error)

	// Delete removes a flight by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgFlightRepo is the Postgres implementation of FlightRepo.
type pgFlightRepo struct {
	db db
}

// NewFlightRepo constructs a FlightRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewFlightRepo(db db) FlightRepo {
	return &pgFlightRepo{db: db}
}

const flightColumns = `id, flight_number, departure, arrival, departure_time, signed_up_users, created_at, updated_at`

// Create inserts a new flight row and returns the full persisted record.
func (r *pgFlightRepo) Create(ctx context.Context, flight domain.Flight) (domain.Flight, error) {
	const q = `
		INSERT INTO flights (flight_number, departure, arrival, departure_time, signed_up_users)
		VALUES (@flight_number, @departure, @arrival, @departure_time, @signed_up_users)
		RETURNING ` + flightColumns

	args := pgx.NamedArgs{
		"flight_number":   flight.FlightNumber,
		"departure":       flight.Departure,
		"arrival":         flight.Arrival,
		"departure_time":  flight.DepartureTime,
		"signed_up_users": signupsParam(flight.SignedUpUsers),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFlight(row)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a flight by primary key.
func (r *pgFlightRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Flight, error) {
	const q = `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanFlight(row)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the full collection ordered by flight number ascending.
func (r *pgFlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	const q = `
		SELECT ` + flightColumns + `
		FROM flights
		ORDER BY flight_number ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.List: %w", err)
	}
	defer rows.Close()

	var flights []domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FlightRepo.List: scan: %w", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.List: rows: %w", err)
	}

	return flights, nil
}

// UpdateFields overwrites the four flight fields and returns the updated
// record. signed_up_users is deliberately not in the SET list: concurrent
// signup toggles must survive an administrator edit.
func (r *pgFlightRepo) UpdateFields(ctx context.Context, id uuid.UUID, input domain.FlightInput) (domain.Flight, error) {
	const q = `
		UPDATE flights
		SET flight_number  = @flight_number,
		    departure      = @departure,
		    arrival        = @arrival,
		    departure_time = @departure_time,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + flightColumns

	args := pgx.NamedArgs{
		"id":             id,
		"flight_number":  input.FlightNumber,
		"departure":      input.Departure,
		"arrival":        input.Arrival,
		"departure_time": input.DepartureTime,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFlight(row)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.UpdateFields: %w", err)
	}
	return result, nil
}

// SetSignups replaces the signup sequence wholesale and returns the updated record.
func (r *pgFlightRepo) SetSignups(ctx context.Context, id uuid.UUID, signedUpUsers []string) (domain.Flight, error) {
	const q = `
		UPDATE flights
		SET signed_up_users = @signed_up_users,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + flightColumns

	args := pgx.NamedArgs{
		"id":              id,
		"signed_up_users": signupsParam(signedUpUsers),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFlight(row)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("repo.FlightRepo.SetSignups: %w", err)
	}
	return result, nil
}

// Delete removes a flight by primary key.
func (r *pgFlightRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM flights WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.FlightRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FlightRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// signupsParam normalizes a nil slice to an empty array so the text[] column
// never stores NULL.
func signupsParam(signedUpUsers []string) []string {
	if signedUpUsers == nil {
		return []string{}
	}
	return signedUpUsers
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanFlight to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanFlight maps a single database row into a domain.Flight.
// It handles the UUID and text[] conversions.
func scanFlight(s scanner) (domain.Flight, error) {
	var (
		f  domain.Flight
		id pgtype.UUID
	)

	err := s.Scan(&id, &f.FlightNumber, &f.Departure, &f.Arrival, &f.DepartureTime,
		&f.SignedUpUsers, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Flight{}, domain.ErrNotFound
		}
		return domain.Flight{}, err
	}

	f.ID = uuid.UUID(id.Bytes)
	if f.SignedUpUsers == nil {
		f.SignedUpUsers = []string{}
	}

	return f, nil
}
