package accountusecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/rabbitmq/amqp091-go"
	accountentity "github.com/veedubyou/stem-lab-be/src/server/internal/account/entity"
	accountstorage "github.com/veedubyou/stem-lab-be/src/server/internal/account/storage"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/auth"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/rabbitmq"
)

const codeTTL = 10 * time.Minute
const saltByteLength = 16

type Clock func() time.Time

type pendingCode struct {
	code      string
	expiresAt time.Time
}

type Usecase struct {
	db        accountentity.Store
	publisher rabbitmq.Publisher
	clock     Clock

	pendingLock  sync.Mutex
	pendingCodes map[string]pendingCode
}

func NewUsecase(db accountentity.Store, publisher rabbitmq.Publisher, clock Clock) *Usecase {
	if clock == nil {
		clock = time.Now
	}

	return &Usecase{
		db:           db,
		publisher:    publisher,
		clock:        clock,
		pendingCodes: make(map[string]pendingCode),
	}
}

// RequestCode issues a fresh verification code for the email and hands
// it off for delivery. Requesting again replaces any earlier code.
// Delivery is best effort: if the queue is down the code is logged so
// a developer can still complete verification locally.
func (u *Usecase) RequestCode(ctx context.Context, email string) *api.Error {
	if apiErr := validateEmail(email); apiErr != nil {
		return apiErr
	}

	code, err := generateCode()
	if err != nil {
		return api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to generate a verification code")
	}

	u.pendingLock.Lock()
	u.pendingCodes[email] = pendingCode{
		code:      code,
		expiresAt: u.clock().Add(codeTTL),
	}
	u.pendingLock.Unlock()

	if err := u.publishVerificationEmail(email, code); err != nil {
		err = errors.Wrap(err, "Failed to queue the verification email")
		log.WithField("email", email).
			WithField("code", code).
			WithError(err).
			Warn("Verification email could not be queued, logging the code instead")
	}

	return nil
}

// Verify consumes the pending code and creates the account, or rotates
// the password if the email already has one.
func (u *Usecase) Verify(ctx context.Context, email string, code string, password string, name string) (accountentity.Account, *api.Error) {
	if apiErr := validateEmail(email); apiErr != nil {
		return accountentity.Account{}, apiErr
	}

	if password == "" {
		return accountentity.Account{}, api.CommitError(
			errors.New("No password was provided"),
			auth.BadAuthDataCode,
			"A password is required to create an account")
	}

	if apiErr := u.consumeCode(email, code); apiErr != nil {
		return accountentity.Account{}, apiErr
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return accountentity.Account{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to secure the password")
	}

	account, apiErr := u.upsertAccount(ctx, email, name, passwordHash)
	if apiErr != nil {
		return accountentity.Account{}, api.WrapError(apiErr, "Failed to save the verified account")
	}

	return account, nil
}

func (u *Usecase) consumeCode(email string, code string) *api.Error {
	u.pendingLock.Lock()
	defer u.pendingLock.Unlock()

	pending, ok := u.pendingCodes[email]
	if !ok {
		return api.CommitError(
			errors.New("No code was requested for this email"),
			auth.CodeNotRequestedCode,
			"No verification code was requested for this email")
	}

	if u.clock().After(pending.expiresAt) {
		delete(u.pendingCodes, email)
		return api.CommitError(
			errors.New("The verification code has expired"),
			auth.CodeExpiredCode,
			"This verification code has expired, please request a new one")
	}

	if subtle.ConstantTimeCompare([]byte(pending.code), []byte(code)) != 1 {
		return api.CommitError(
			errors.New("The verification code does not match"),
			auth.InvalidCodeCode,
			"The verification code is incorrect")
	}

	delete(u.pendingCodes, email)
	return nil
}

func (u *Usecase) upsertAccount(ctx context.Context, email string, name string, passwordHash string) (accountentity.Account, *api.Error) {
	now := u.clock()

	account := accountentity.Account{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	existing, err := u.db.GetAccount(ctx, email)
	switch {
	case err == nil:
		account.CreatedAt = existing.CreatedAt
		if account.Name == "" {
			account.Name = existing.Name
		}
	case markers.Is(err, accountstorage.AccountNotFoundMark):
		// first verification for this email, the zero state is fine
	default:
		err = errors.Wrap(err, "Failed to look up the existing account")
		return accountentity.Account{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to look up the account")
	}

	if err := u.db.SetAccount(ctx, account); err != nil {
		err = errors.Wrap(err, "Failed to write the account")
		switch {
		case markers.Is(err, accountstorage.BadAccountDataMark):
			return accountentity.Account{}, api.CommitError(err,
				auth.BadAuthDataCode,
				"The account details provided are malformed")
		case markers.Is(err, accountstorage.DefaultErrorMark):
			fallthrough
		default:
			return accountentity.Account{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown error: Failed to save the account")
		}
	}

	return account, nil
}

type verificationEmailParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (u *Usecase) publishVerificationEmail(email string, code string) error {
	jsonBytes, err := json.Marshal(verificationEmailParams{
		Email: email,
		Code:  code,
	})

	if err != nil {
		return errors.Wrap(err, "Failed to marshal the verification email params")
	}

	publishMsg := amqp091.Publishing{
		Type: "verification_email",
		Body: jsonBytes,
	}

	if err := u.publisher.Publish(publishMsg); err != nil {
		return errors.Wrap(err, "Failed to publish message to rabbitmq")
	}

	return nil
}

func validateEmail(email string) *api.Error {
	if email == "" || !strings.Contains(email, "@") {
		return api.CommitError(
			errors.Errorf("Email %s is not a usable address", email),
			auth.BadAuthDataCode,
			"A valid email address is required")
	}

	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", errors.Wrap(err, "Failed to draw random bytes for the code")
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, saltByteLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "Failed to draw a random salt")
	}

	digest := sha256.Sum256(append(salt, []byte(password)...))
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest[:]), nil
}

// CheckPassword recomputes the salted digest from a stored salt$hex value.
func CheckPassword(storedHash string, password string) bool {
	parts := strings.SplitN(storedHash, "$", 2)
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}

	digest := sha256.Sum256(append(salt, []byte(password)...))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest[:])), []byte(parts[1])) == 1
}
