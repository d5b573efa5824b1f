package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/utils"
)

// UserStore is the slice of the user repository the admin operations
// need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// UserService covers user administration: creating accounts with a
// hashed password and removing them.
type UserService struct {
	users UserStore
}

// NewUserService constructs the user admin service.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Create assigns the user a fresh external identifier, hashes the
// password onto the record and inserts it. A blank password leaves
// salt and hash empty, meaning no password is set and the account
// cannot log in.
func (s *UserService) Create(ctx context.Context, u *model.User, password string) (bool, error) {
	log.Printf("user: adding user %q", u.UserName)
	u.Identifier = uuid.New()
	u.PasswordSalt, u.PasswordHash = utils.HashPassword(password)
	return s.users.Create(ctx, u)
}

// Delete removes the user record along with its co-located
// refresh-token state.
func (s *UserService) Delete(ctx context.Context, u *model.User) (bool, error) {
	log.Printf("user: deleting user %q", u.UserName)
	return s.users.Delete(ctx, u.ID)
}
