package accountentity

import (
	"context"
	"time"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Account is created the first time an email address passes code
// verification. Re-verifying the same email rotates the password but
// keeps the original creation time.
type Account struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

//counterfeiter:generate . Store
type Store interface {
	GetAccount(ctx context.Context, email string) (Account, error)
	SetAccount(ctx context.Context, account Account) error
}
