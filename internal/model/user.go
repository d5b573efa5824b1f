package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an API account. The password is stored as a 64-byte random
// salt plus a 32-byte keyed hash; empty salt and hash mean no
// password has been set. Identifier is the opaque external id
// carried in token claims instead of the numeric primary key.
// Refresh-token state lives on the same row so that credential
// updates commit atomically with the user.
//
// Fields:
//  ID           – primary key identifier.
//  Identifier   – opaque external identifier used in claims.
//  UserName     – unique login name, matched case-sensitively.
//  PasswordSalt – 64-byte keyed-hash secret.
//  PasswordHash – 32-byte keyed hash of the password.
//  AccessToken  – last issued access token, cleared on revocation.
//  Role         – authorization role.
//  RefreshToken – current refresh-token state.
type User struct {
	ID           uint64       // users.id
	Identifier   uuid.UUID    // users.identifier
	UserName     string       // users.user_name
	PasswordSalt []byte       // users.password_salt
	PasswordHash []byte       // users.password_hash
	AccessToken  string       // users.access_token
	Role         Role         // users.role
	RefreshToken RefreshToken // refresh-token columns on the users row
}

// RefreshToken is the single refresh credential owned by a user.
// Exactly one of the two shapes is valid domain state: live (Value
// and ExpiryDate set, RevokeDate nil) or revoked (Value empty,
// ExpiryDate nil, RevokeDate set).
//
// Fields:
//  Value      – opaque random token value, empty after revocation.
//  CreateDate – when the token was issued.
//  ExpiryDate – when the token expires, nil after revocation.
//  RevokeDate – when the token was revoked, nil while live.
type RefreshToken struct {
	Value      string     // users.refresh_value
	CreateDate *time.Time // users.refresh_created_at (nullable)
	ExpiryDate *time.Time // users.refresh_expires_at (nullable)
	RevokeDate *time.Time // users.refresh_revoked_at (nullable)
}

// IsRevoked reports whether the token is in the revoked state.
func (t RefreshToken) IsRevoked() bool {
	return t.RevokeDate != nil && t.ExpiryDate == nil
}
