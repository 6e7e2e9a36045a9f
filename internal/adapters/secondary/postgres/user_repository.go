package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// UserRepository is the secondary adapter for user persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) ports.UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user         domain.User
		id           pgtype.UUID
		labID        pgtype.UUID
		createdAt    pgtype.Timestamptz
		lastActiveAt pgtype.Timestamptz
	)

	err := row.Scan(&id, &labID, &user.FullName, &user.Email, &user.HashedPassword, &user.IsActive, &createdAt, &lastActiveAt)
	if err != nil {
		return nil, err
	}

	user.ID = id.Bytes
	user.LabID = labID.Bytes
	user.CreatedAt = createdAt.Time
	if lastActiveAt.Valid {
		user.LastActiveAt = &lastActiveAt.Time
	}

	return &user, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (id, lab_id, full_name, email, hashed_password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, lab_id, full_name, email, hashed_password, is_active, created_at, last_active_at
	`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		pgtype.UUID{Bytes: user.ID, Valid: true},
		pgtype.UUID{Bytes: user.LabID, Valid: true},
		user.FullName,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.CreatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}

	return created, nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, lab_id, full_name, email, hashed_password, is_active, created_at, last_active_at
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(GetDBTX(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, lab_id, full_name, email, hashed_password, is_active, created_at, last_active_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(GetDBTX(ctx, r.pool).QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
