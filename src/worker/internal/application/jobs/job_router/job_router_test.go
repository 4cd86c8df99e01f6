package job_router_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/integration_test/dummy"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/jobs/job_router"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/jobs/verification_email"
)

var _ = Describe("Job router", func() {
	var (
		dummySender *dummy.EmailSender
		router      job_router.JobRouter
	)

	BeforeEach(func() {
		dummySender = dummy.NewDummyEmailSender()
		router = job_router.NewJobRouter(
			verification_email.NewJobHandler(dummySender))
	})

	It("routes verification email messages to their handler", func() {
		body, err := json.Marshal(verification_email.JobParams{
			Email: "singer@stemlab.app",
			Code:  "654321",
		})
		Expect(err).NotTo(HaveOccurred())

		err = router.HandleMessage(amqp091.Delivery{
			Type: verification_email.JobType,
			Body: body,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(dummySender.Sent).To(HaveLen(1))
	})

	It("rejects messages with an unknown type", func() {
		err := router.HandleMessage(amqp091.Delivery{
			Type: "launch_the_missiles",
			Body: []byte("{}"),
		})
		Expect(err).To(HaveOccurred())
		Expect(dummySender.Sent).To(BeEmpty())
	})
})
