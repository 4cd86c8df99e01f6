package accountstorage

import (
	"context"
	"time"

	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	accountentity "github.com/veedubyou/stem-lab-be/src/server/internal/account/entity"
	dynamolib "github.com/veedubyou/stem-lab-be/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/errors/mark"
)

const (
	AccountsTable = "Accounts"

	emailKey       = "email"
	nameField      = "name"
	passwordField  = "password_hash"
	verifiedField  = "verified"
	createdAtField = "created_at"
	updatedAtField = "updated_at"
)

var _ accountentity.Store = DB{}

type dbAccount struct {
	Email        string    `dynamo:"email"`
	Name         string    `dynamo:"name"`
	PasswordHash string    `dynamo:"password_hash"`
	Verified     bool      `dynamo:"verified"`
	CreatedAt    time.Time `dynamo:"created_at"`
	UpdatedAt    time.Time `dynamo:"updated_at"`
}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) GetAccount(ctx context.Context, email string) (accountentity.Account, error) {
	value := dbAccount{}
	err := d.dynamoDB.Table(AccountsTable).
		Get(emailKey, email).
		Consistent(true).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case markers.Is(err, dynamo.ErrNotFound):
			return accountentity.Account{}, mark.Wrap(err, AccountNotFoundMark, "Account is not found")
		default:
			return accountentity.Account{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch account")
		}
	}

	return accountentity.Account{
		Email:        value.Email,
		Name:         value.Name,
		PasswordHash: value.PasswordHash,
		Verified:     value.Verified,
		CreatedAt:    value.CreatedAt,
		UpdatedAt:    value.UpdatedAt,
	}, nil
}

func (d DB) SetAccount(ctx context.Context, account accountentity.Account) error {
	if err := validateAccount(account); err != nil {
		return mark.Wrap(err, BadAccountDataMark, "Account fields failed validation")
	}

	err := d.dynamoDB.Table(AccountsTable).
		Put(map[string]any{
			emailKey:       account.Email,
			nameField:      account.Name,
			passwordField:  account.PasswordHash,
			verifiedField:  account.Verified,
			createdAtField: account.CreatedAt,
			updatedAtField: account.UpdatedAt,
		}).
		RunWithContext(ctx)

	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to write account")
	}

	return nil
}

func validateAccount(account accountentity.Account) error {
	if err := dynamolib.ValidateStringField(account.Email, "email"); err != nil {
		return err
	}

	return dynamolib.ValidateStringField(account.PasswordHash, "password_hash")
}
