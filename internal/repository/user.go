package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labecommerce/catalog-api/internal/domain/user"
)

const (
	listUsersSQL = `SELECT id, name, email, password, created_at
		FROM users ORDER BY id`

	getUserByIDSQL = `SELECT id, name, email, password, created_at
		FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT id, name, email, password, created_at
		FROM users WHERE email = $1`

	insertUserSQL = `INSERT INTO users (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// GetByID returns a single user by its identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id)
}

// GetByEmail returns a single user by its unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) getOne(ctx context.Context, sql, arg string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", arg, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", arg, err)
	}
	return &u, nil
}

// Create persists a new user. Unique violations are mapped back to the
// domain's conflict errors so a concurrent duplicate insert fails the same
// way an application-level precheck does.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL,
		u.ID, u.Name, u.Email, u.Password, u.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "users_pkey"):
		return user.ErrDuplicateID
	case isUniqueViolation(err, "users_email_key"):
		return user.ErrDuplicateEmail
	default:
		return fmt.Errorf("creating user %q: %w", u.ID, err)
	}
}

// Update applies only the fields present in the patch. Column names are
// code constants; every value is a bind parameter.
func (r *UserRepository) Update(ctx context.Context, id string, p user.Patch) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ID != nil {
		set("id", *p.ID)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Email != nil {
		set("email", *p.Email)
	}
	if p.Password != nil {
		set("password", *p.Password)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, sql, args...)
	switch {
	case isUniqueViolation(err, "users_pkey"):
		return user.ErrDuplicateID
	case isUniqueViolation(err, "users_email_key"):
		return user.ErrDuplicateEmail
	case err != nil:
		return fmt.Errorf("updating user %q: %w", id, err)
	case tag.RowsAffected() == 0:
		return user.ErrNotFound
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("deleting user %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	return u, err
}
