package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Messages are user-facing and therefore localized; handlers send them
// verbatim as response bodies.
var (
	ErrNotFound       = errors.New("Usuário não encontrado")
	ErrDuplicateID    = errors.New("Esse id já existe")
	ErrDuplicateEmail = errors.New("Esse e-mail já existe")
)

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext, and is excluded from JSON serialization.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch carries a partial update. Nil means "leave unchanged"; a non-nil
// pointer is applied even when it points at a zero value.
type Patch struct {
	ID       *string
	Name     *string
	Email    *string
	Password *string
}

// Repository defines persistence operations for users.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}
