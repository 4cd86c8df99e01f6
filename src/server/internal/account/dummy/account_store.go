package dummy

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	accountentity "github.com/veedubyou/stem-lab-be/src/server/internal/account/entity"
	accountstorage "github.com/veedubyou/stem-lab-be/src/server/internal/account/storage"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/errors/mark"
)

var NetworkFailure = errors.New("dummy network failure")

var _ accountentity.Store = &AccountStore{}

func NewDummyAccountStore() *AccountStore {
	return &AccountStore{
		State: make(map[string]accountentity.Account),
	}
}

type AccountStore struct {
	Unavailable bool
	State       map[string]accountentity.Account
	mutex       sync.RWMutex
}

func (a *AccountStore) GetAccount(ctx context.Context, email string) (accountentity.Account, error) {
	if a.Unavailable {
		return accountentity.Account{}, mark.Wrap(NetworkFailure, accountstorage.DefaultErrorMark, "Failed to fetch account")
	}

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	account, ok := a.State[email]
	if !ok {
		return accountentity.Account{}, mark.Message(accountstorage.AccountNotFoundMark, "Account is not found")
	}

	return account, nil
}

func (a *AccountStore) SetAccount(ctx context.Context, account accountentity.Account) error {
	if a.Unavailable {
		return mark.Wrap(NetworkFailure, accountstorage.DefaultErrorMark, "Failed to write account")
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.State[account.Email] = account
	return nil
}
