package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, password_hash, gender, date_of_birth, known_as, city, country,
		introduction, looking_for, interests, roles, created_at, last_active_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Gender, user.DateOfBirth,
		user.KnownAs, user.City, user.Country, user.Introduction, user.LookingFor,
		user.Interests, user.Roles, user.CreatedAt, user.LastActiveAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q taken: %w", user.Username, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves several users at once, keyed by id. Missing ids are
// simply absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	if len(ids) == 0 {
		return map[string]*models.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*models.User, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Exists checks whether a user id is registered
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// List runs a discovery query: the filter becomes a WHERE clause, the total
// is counted over the full filtered set, then one page is selected.
func (r *UserRepository) List(ctx context.Context, f models.DiscoveryFilter, p pagination.Params) ([]*models.User, int, error) {
	conds := []string{"id <> $1", "gender = $2"}
	args := []interface{}{f.RequesterID, f.Gender}

	if f.FilterDob {
		conds = append(conds, fmt.Sprintf("date_of_birth BETWEEN $%d AND $%d", len(args)+1, len(args)+2))
		args = append(args, f.MinDob, f.MaxDob)
	}
	if f.LikersOnly {
		conds = append(conds, "EXISTS(SELECT 1 FROM likes WHERE liker_id = users.id AND likee_id = $1)")
	}
	if f.LikeesOnly {
		conds = append(conds, "EXISTS(SELECT 1 FROM likes WHERE likee_id = users.id AND liker_id = $1)")
	}

	where := strings.Join(conds, " AND ")

	countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy := "last_active_at DESC"
	if f.OrderBy == models.OrderByCreated {
		orderBy = "created_at DESC"
	}

	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderBy, len(args)+1, len(args)+2)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, total, nil
}

// Update persists the editable profile fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET known_as = $1, city = $2, country = $3, introduction = $4, looking_for = $5, interests = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		user.KnownAs, user.City, user.Country, user.Introduction, user.LookingFor,
		user.Interests, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrNotFound)
	}
	return nil
}

// TouchLastActive stamps the user's last activity
func (r *UserRepository) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_active_at = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to touch last active: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Gender, &user.DateOfBirth,
		&user.KnownAs, &user.City, &user.Country, &user.Introduction, &user.LookingFor,
		&user.Interests, &user.Roles, &user.CreatedAt, &user.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
