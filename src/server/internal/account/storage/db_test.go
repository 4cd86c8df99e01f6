package accountstorage_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/cockroachdb/errors/markers"
	accountentity "github.com/veedubyou/stem-lab-be/src/server/internal/account/entity"
	accountstorage "github.com/veedubyou/stem-lab-be/src/server/internal/account/storage"
	dynamolib "github.com/veedubyou/stem-lab-be/src/shared/lib/dynamo"
)

var _ = Describe("Account DB", func() {
	var (
		db      accountstorage.DB
		account accountentity.Account
	)

	BeforeEach(func() {
		// validation happens before any network call, so no live
		// dynamo instance is needed to exercise the rejection paths
		db = accountstorage.NewDB(dynamolib.DynamoDBWrapper{})

		account = accountentity.Account{
			Email:        "singer@stemlab.app",
			Name:         "A Singer",
			PasswordHash: "salt$digest",
			Verified:     true,
			CreatedAt:    time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	})

	Describe("SetAccount validation", func() {
		It("rejects an account without an email", func() {
			account.Email = ""

			err := db.SetAccount(context.Background(), account)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, accountstorage.BadAccountDataMark)).To(BeTrue())
		})

		It("rejects an account with a whitespace only email", func() {
			account.Email = "   "

			err := db.SetAccount(context.Background(), account)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, accountstorage.BadAccountDataMark)).To(BeTrue())
		})

		It("rejects an account without a password hash", func() {
			account.PasswordHash = ""

			err := db.SetAccount(context.Background(), account)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, accountstorage.BadAccountDataMark)).To(BeTrue())
		})
	})
})
