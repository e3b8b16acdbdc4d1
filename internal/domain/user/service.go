package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// CreateRequest holds the input for registering a user. Password is the
// plaintext; it is hashed before anything is persisted.
type CreateRequest struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// Service encapsulates user account business logic.
type Service struct {
	users Repository
	now   func() time.Time
}

// NewService creates a user Service backed by the given repository.
func NewService(users Repository) *Service {
	return &Service{users: users, now: time.Now}
}

// List returns every registered user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// Create registers a new user. The id and email must both be unused; the id
// check runs first so its failure wins when both collide. The database
// uniqueness constraints remain the backstop against concurrent creates.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if _, err := s.users.GetByID(ctx, req.ID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check user id")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check user email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a partial update to the user with the given id. Changed ids
// and emails are rechecked for uniqueness; a new password is hashed before
// it reaches storage. Fields absent from the patch keep their stored value,
// including falsy-but-valid ones.
func (s *Service) Update(ctx context.Context, id string, p Patch) error {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.ID != nil && *p.ID != current.ID {
		if _, err := s.users.GetByID(ctx, *p.ID); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "check user id")
		}
	}
	if p.Email != nil && *p.Email != current.Email {
		if _, err := s.users.GetByEmail(ctx, *p.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "check user email")
		}
	}
	if p.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}
		hashed := string(hash)
		p.Password = &hashed
	}

	return s.users.Update(ctx, id, p)
}

// Delete removes the user with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
