package separation_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/dummy"
	separationerrors "github.com/veedubyou/stem-lab-be/src/server/internal/separation/errors"
	separationgateway "github.com/veedubyou/stem-lab-be/src/server/internal/separation/gateway"
	separationusecase "github.com/veedubyou/stem-lab-be/src/server/internal/separation/usecase"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
	testlib "github.com/veedubyou/stem-lab-be/src/shared/testing"
)

var _ = Describe("Separation gateway", func() {
	var (
		gateway  separationgateway.Gateway
		response *httptest.ResponseRecorder

		mediaBytes []byte
		formValues map[string]string
	)

	BeforeEach(func() {
		workingDirPath, err := os.MkdirTemp("", "separation-gateway-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(workingDirPath)
		})

		usecase, err := separationusecase.NewUsecase(
			dummy.NewDummyTranscoder(),
			dummy.NewDummyEngine(),
			separationusecase.Config{
				WorkingDirPath: workingDirPath,
				Timeout:        time.Minute,
			})
		Expect(err).NotTo(HaveOccurred())

		gateway = separationgateway.NewGateway(usecase)

		mediaBytes = testlib.FakeWAVBytes("gateway-upload")
		formValues = map[string]string{"model": "spleeter:2stems"}
	})

	separate := func() {
		request := testlib.MultipartUploadFactory{
			Target:      "/api/separate",
			FieldName:   "file",
			FileName:    "song.wav",
			ContentType: "audio/wav",
			FileData:    mediaBytes,
			FormValues:  formValues,
		}.MakeFake()

		response = httptest.NewRecorder()
		c := testlib.PrepareEchoContext(request, response)

		err := gateway.Separate(c)
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("Happy path", func() {
		It("returns the stems as data URLs", func() {
			separate()
			Expect(response.Code).To(Equal(http.StatusOK))

			decoded := testlib.DecodeJSON[separationgateway.SeparateResponse](response.Body)
			Expect(decoded.Model).To(Equal("spleeter:2stems"))
			Expect(decoded.Stems).To(HaveLen(2))
			Expect(decoded.Stems).To(HaveKey("vocals"))
			Expect(decoded.Stems).To(HaveKey("accompaniment"))

			contentType, data, err := stementity.DecodeDataURL(decoded.Stems["vocals"])
			Expect(err).NotTo(HaveOccurred())
			Expect(contentType).To(Equal(stementity.WAVContentType))
			Expect(data).To(Equal(append(append([]byte{}, mediaBytes...), []byte("-vocals")...)))
		})

		It("falls back to the default model when none is given", func() {
			formValues = nil
			separate()
			Expect(response.Code).To(Equal(http.StatusOK))

			decoded := testlib.DecodeJSON[separationgateway.SeparateResponse](response.Body)
			Expect(decoded.Model).To(Equal(stementity.DefaultModelID))
			Expect(decoded.Stems).To(HaveLen(4))
		})
	})

	Describe("Bad requests", func() {
		It("rejects an unknown model", func() {
			formValues = map[string]string{"model": "spleeter:42stems"}
			separate()

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			jsonError := testlib.DecodeJSONError(response.Body)
			Expect(jsonError.Code).To(Equal(string(separationerrors.InvalidModelCode)))
		})

		It("rejects a request without a media file", func() {
			request := testlib.RequestFactory{
				Method: "POST",
				Target: "/api/separate",
			}.MakeFake()
			response = httptest.NewRecorder()
			c := testlib.PrepareEchoContext(request, response)

			err := gateway.Separate(c)
			Expect(err).NotTo(HaveOccurred())

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			jsonError := testlib.DecodeJSONError(response.Body)
			Expect(jsonError.Code).To(Equal(string(separationerrors.BadMediaDataCode)))
		})
	})
})
