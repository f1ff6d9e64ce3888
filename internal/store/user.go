package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conectly/userapi/internal/db"
	"github.com/conectly/userapi/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ListParams controls filtering, ordering, and slicing of a user listing.
// Page is 1-based.
type ListParams struct {
	Active   bool
	SortBy   string
	OrderAsc bool
	Page     int
	PageSize int
}

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"createdAt":      "created_at",
	"name":           "name",
	"userName":       "username",
	"email":          "email",
	"followersCount": "followers_count",
	"followingCount": "following_count",
}

// SortColumn resolves a caller-supplied sort key to a column name.
// The second return value is false for unknown keys.
func SortColumn(key string) (string, bool) {
	column, ok := sortColumns[key]
	return column, ok
}

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. The id and timestamps are assigned here. A
// collision on the unique email index is reported as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Gender == "" {
		user.Gender = types.GenderUnspecified
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	user.IsActive = true

	const query = `
		INSERT INTO users (id, name, username, email, password_hash, profile_picture, bio, gender,
			followers, following, followers_count, following_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ProfilePicture,
		user.Bio,
		user.Gender,
		pq.Array(user.Followers),
		pq.Array(user.Following),
		user.FollowersCount,
		user.FollowingCount,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, name, username, email, password_hash, profile_picture, bio, gender,
			followers, following, followers_count, following_count, is_active, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `
		SELECT id, name, username, email, password_hash, profile_picture, bio, gender,
			followers, following, followers_count, following_count, is_active, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// List returns one page of users plus the total count of matching rows.
// The projection leaves PasswordHash and UpdatedAt unset.
func (r *UserRepository) List(ctx context.Context, params ListParams) ([]types.User, int, error) {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unknown sort key %q", params.SortBy)
	}
	direction := "DESC"
	if params.OrderAsc {
		direction = "ASC"
	}

	var total int
	const countQuery = `SELECT COUNT(*) FROM users WHERE is_active = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, params.Active).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, username, email, profile_picture, bio, gender,
			followers, following, followers_count, following_count, is_active, created_at
		FROM users
		WHERE is_active = $1
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, column, direction)
	rows, err := r.db.QueryContext(ctx, query, params.Active, params.PageSize, (params.Page-1)*params.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Username,
			&user.Email,
			&user.ProfilePicture,
			&user.Bio,
			&user.Gender,
			pq.Array(&user.Followers),
			pq.Array(&user.Following),
			&user.FollowersCount,
			&user.FollowingCount,
			&user.IsActive,
			&user.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetActive flips the active flag; deactivation is the only removal path.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePicture,
		&user.Bio,
		&user.Gender,
		pq.Array(&user.Followers),
		pq.Array(&user.Following),
		&user.FollowersCount,
		&user.FollowingCount,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
