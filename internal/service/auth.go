package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/averdin/northwind-api/internal/config"
	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
	"github.com/averdin/northwind-api/internal/utils"
)

// CredentialStore is the slice of the user repository the credential
// engine needs.
type CredentialStore interface {
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	GetByRefreshValue(ctx context.Context, value string) (*model.User, error)
	UpdateCredentials(ctx context.Context, u *model.User) (bool, error)
}

// AuthService is the credential engine: it verifies passwords, mints
// access tokens and rotates or revokes refresh tokens. Token changes
// are staged on the user record; nothing is durable until Save.
type AuthService struct {
	users CredentialStore
	cfg   config.Config
}

// NewAuthService constructs the credential engine.
func NewAuthService(users CredentialStore, cfg config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

// GetByCredentials finds a user by exact user name and verifies the
// password. Unknown user and wrong password both return (nil, nil):
// the caller cannot tell them apart, which prevents user-name
// enumeration.
func (s *AuthService) GetByCredentials(ctx context.Context, userName, password string) (*model.User, error) {
	log.Printf("auth: retrieving user %q by credentials", userName)
	u, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !utils.VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

// GetByRefreshToken finds the user whose live refresh-token value
// matches exactly, or nil when there is none. Expiry is deliberately
// not checked here so the caller can distinguish "expired" from
// "unknown".
func (s *AuthService) GetByRefreshToken(ctx context.Context, value string) (*model.User, error) {
	log.Printf("auth: retrieving user by refresh token")
	u, err := s.users.GetByRefreshValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// IssueCredentials mints a new access token and a new refresh token
// onto the user record. The refresh token lives twice as long as the
// access token. Used identically at login and at refresh time; the
// shared minting is intentional symmetry. The record is only staged —
// call Save to persist.
func (s *AuthService) IssueCredentials(u *model.User) error {
	log.Printf("auth: issuing credentials for user %q", u.UserName)
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTAudience, s.cfg.JWTIssuer,
		u.Identifier.String(), u.Role.String(), s.cfg.AccessTTL)
	if err != nil {
		return err
	}
	value, err := utils.NewRefreshValue()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	exp := now.Add(s.cfg.RefreshTTL())
	u.AccessToken = access.Token
	u.RefreshToken = model.RefreshToken{
		Value:      value,
		CreateDate: &now,
		ExpiryDate: &exp,
		RevokeDate: nil,
	}
	return nil
}

// RevokeCredentials clears the access token and refresh-token value
// and expiry, and stamps the revocation time. The create date is left
// as it was. The user record itself is not deleted.
func (s *AuthService) RevokeCredentials(u *model.User) {
	log.Printf("auth: revoking credentials for user %q", u.UserName)
	now := time.Now().UTC()
	u.AccessToken = ""
	u.RefreshToken.Value = ""
	u.RefreshToken.ExpiryDate = nil
	u.RefreshToken.RevokeDate = &now
}

// Save commits staged credential changes; true means at least one row
// changed.
func (s *AuthService) Save(ctx context.Context, u *model.User) (bool, error) {
	return s.users.UpdateCredentials(ctx, u)
}
