package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
	"github.com/kod2ulz/gostart/logr"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kod2ulz/paga-business/client"
	dbp "github.com/kod2ulz/paga-business/sql/db/paga"
)

type recordedRequest struct {
	Path   string
	Header http.Header
	Body   string
}

type fakeCallLog struct {
	sync.Mutex
	requests  []dbp.LogApiRequestParams
	responses []dbp.LogApiResponseParams
	failWith  error
}

func (f *fakeCallLog) LogApiRequest(ctx context.Context, arg dbp.LogApiRequestParams) (dbp.PagaApiCall, error) {
	f.Lock()
	defer f.Unlock()
	if f.failWith != nil {
		return dbp.PagaApiCall{}, f.failWith
	}
	f.requests = append(f.requests, arg)
	return dbp.PagaApiCall{ID: int64(len(f.requests)), RequestID: arg.RequestID, Operation: arg.Operation}, nil
}

func (f *fakeCallLog) LogApiResponse(ctx context.Context, arg dbp.LogApiResponseParams) (dbp.PagaApiCall, error) {
	f.Lock()
	defer f.Unlock()
	if arg.ID == 0 {
		return dbp.PagaApiCall{}, pgx.ErrNoRows
	}
	f.responses = append(f.responses, arg)
	return dbp.PagaApiCall{ID: arg.ID}, nil
}

type failingDispatcher struct{ err error }

func (d failingDispatcher) Send(ctx context.Context, req *client.BuiltRequest) client.Outcome {
	return client.Outcome{Err: d.err}
}

func testLogger() *logr.Logger {
	log := logrus.New()
	log.SetOutput(GinkgoWriter)
	return &logr.Logger{Entry: logrus.NewEntry(log)}
}

var moneyTransfer = client.Operation{
	Name:            "moneyTransfer",
	Path:            "moneyTransfer",
	SignatureFields: []string{"referenceNumber", "amount", "destinationAccount"},
	Transport:       client.TransportJSON,
}

var accountPhoto = client.Operation{
	Name:            "registerCustomerAccountPhoto",
	Path:            "registerCustomerAccountPhoto",
	SignatureFields: []string{"referenceNumber", "customerPhoneNumber"},
	Transport:       client.TransportMultipart,
}

var _ = Describe("Paga Client", func() {

	var ctx context.Context
	var srv *httptest.Server
	var calls *fakeCallLog
	var px *client.Paga
	var status int
	var response string
	var mu sync.Mutex
	var received []recordedRequest

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		status, response, received = http.StatusOK, `{"responseCode":0}`, nil
		calls = &fakeCallLog{}
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			mu.Lock()
			received = append(received, recordedRequest{r.URL.Path, r.Header.Clone(), string(data)})
			mu.Unlock()
			w.WriteHeader(status)
			w.Write([]byte(response))
		}))
		DeferCleanup(srv.Close)
		px, err = client.PagaClient(ctx, testLogger(),
			client.WithPagaIdentity(testIdentity()),
			client.WithPagaHosts(client.Hosts{Test: srv.URL, Live: "http://live.invalid"}),
			client.WithPagaDB(calls),
		)
		Expect(err).To(BeNil())
	})

	It("sends a signed json money transfer", func() {
		body, err := px.Invoke(ctx, moneyTransfer, map[string]any{
			"referenceNumber":    "TXN-1",
			"amount":             "100.00",
			"destinationAccount": "08011112222",
		}, client.Attachments{})
		Expect(err).To(BeNil())
		Expect(body).To(Equal(`{"responseCode":0}`))

		Expect(received).To(HaveLen(1))
		req := received[0]
		Expect(req.Path).To(Equal("/" + client.BasePath + "/moneyTransfer"))
		Expect(req.Header.Get("hash")).To(Equal(sha512Hex("TXN-1", "100.00", "08011112222", testApiKey)))
		Expect(req.Header.Get("principal")).To(Equal("principal"))
		Expect(req.Header.Get("credentials")).To(Equal("credential"))

		var sent map[string]string
		Expect(json.Unmarshal([]byte(req.Body), &sent)).To(Succeed())
		Expect(sent).To(Equal(map[string]string{
			"referenceNumber":    "TXN-1",
			"amount":             "100.00",
			"destinationAccount": "08011112222",
		}))
	})

	It("records the call without secrets", func() {
		_, err := px.Invoke(ctx, moneyTransfer, map[string]any{"referenceNumber": "R1", "senderCredentials": "pin"}, client.Attachments{})
		Expect(err).To(BeNil())

		Expect(calls.requests).To(HaveLen(1))
		logged := string(calls.requests[0].Request.Bytes)
		Expect(calls.requests[0].Operation).To(Equal("moneyTransfer"))
		Expect(logged).NotTo(ContainSubstring(testApiKey))
		Expect(logged).NotTo(ContainSubstring(`"pin"`))
		Expect(logged).NotTo(ContainSubstring(`"credential"`))

		Expect(calls.responses).To(HaveLen(1))
		Expect(calls.responses[0].ID).To(Equal(int64(1)))
		Expect(calls.responses[0].ResponseCode.Int32).To(Equal(int32(200)))
		Expect(calls.responses[0].Outcome.String).To(Equal("success"))
	})

	It("keeps calling when the audit log fails", func() {
		calls.failWith = errors.New("db down")
		_, err := px.Invoke(ctx, moneyTransfer, map[string]any{"referenceNumber": "R1"}, client.Attachments{})
		Expect(err).To(BeNil())
		Expect(received).To(HaveLen(1))
	})

	It("returns remote errors with the body", func() {
		status, response = http.StatusBadRequest, `{"errorMessage":"invalid hash"}`
		body, err := px.Invoke(ctx, moneyTransfer, map[string]any{"referenceNumber": "R1"}, client.Attachments{})
		remote, ok := client.IsRemoteError(err)
		Expect(ok).To(BeTrue())
		Expect(remote.Status).To(Equal(http.StatusBadRequest))
		Expect(body).To(Equal(response))
		Expect(calls.responses[0].Outcome.String).To(Equal("remote_error"))
	})

	It("sends a single account photo without the subsidiary marker", func() {
		photo := &memAttachment{name: "account.jpg", data: []byte("jpeg")}
		_, err := px.Invoke(ctx, accountPhoto, map[string]any{"referenceNumber": "R1", "customerPhoneNumber": "080"},
			client.Attachments{AccountPhoto: photo})
		Expect(err).To(BeNil())
		Expect(received[0].Header.Get("Content-Type")).To(HavePrefix("multipart/form-data; boundary="))
		Expect(received[0].Body).To(ContainSubstring(`name="customerAccountPhoto"; filename="account.jpg"`))
		Expect(received[0].Body).NotTo(ContainSubstring(client.MultipartSubsidiaryField))
		Expect(received[0].Header.Get("hash")).To(Equal(sha512Hex("R1", "080", testApiKey)))
	})

	It("sends both photos with the subsidiary marker", func() {
		attachments := client.Attachments{
			AccountPhoto: &memAttachment{name: "account.jpg", data: []byte("a")},
			IdPhoto:      &memAttachment{name: "id.jpg", data: []byte("b")},
		}
		_, err := px.Invoke(ctx, accountPhoto, map[string]any{"referenceNumber": "R1"}, attachments)
		Expect(err).To(BeNil())
		Expect(received[0].Body).To(ContainSubstring(`name="customerAccountPhoto"`))
		Expect(received[0].Body).To(ContainSubstring(`name="customerIdPhoto"`))
		Expect(received[0].Body).To(ContainSubstring(`name="isSubsidiary"`))
	})

	It("fails before dispatch for a missing photo", func() {
		_, err := px.Invoke(ctx, accountPhoto, map[string]any{"referenceNumber": "R1"},
			client.Attachments{AccountPhoto: client.FileAttachment("/does/not/exist.jpg")})
		Expect(client.IsAttachmentError(err)).To(BeTrue())
		Expect(received).To(BeEmpty())
		Expect(calls.requests).To(BeEmpty())
	})

	It("rejects attachments on json operations", func() {
		_, err := px.Invoke(ctx, moneyTransfer, map[string]any{}, client.Attachments{AccountPhoto: &memAttachment{name: "a"}})
		Expect(err).To(MatchError(ContainSubstring("does not accept attachments")))
	})

	It("rejects unsigned boolean fields", func() {
		op := client.Operation{Name: "flagged", Path: "flagged", SignatureFields: []string{"flag"}}
		_, err := px.Invoke(ctx, op, map[string]any{"flag": true}, client.Attachments{})
		Expect(err).To(MatchError(ContainSubstring("flag")))
		Expect(received).To(BeEmpty())
	})

	It("surfaces transport failures", func() {
		px, err := client.PagaClient(ctx, testLogger(),
			client.WithPagaIdentity(testIdentity()),
			client.WithPagaDispatcher(failingDispatcher{errors.New("connection refused")}),
		)
		Expect(err).To(BeNil())
		_, err = px.Invoke(ctx, moneyTransfer, map[string]any{"referenceNumber": "R1"}, client.Attachments{})
		Expect(client.IsTransportError(err)).To(BeTrue())
	})

	It("times out slow servers", func() {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		DeferCleanup(slow.Close)
		conf := &client.PagaConfig{ApiKey: "k", Principal: "p", Credential: "c", Test: true, Timeout: 50 * time.Millisecond}
		px, err := client.PagaClient(ctx, testLogger(),
			client.WithPagaConfig(conf),
			client.WithPagaHosts(client.Hosts{Test: slow.URL}),
		)
		Expect(err).To(BeNil())
		_, err = px.Invoke(ctx, moneyTransfer, map[string]any{"referenceNumber": "R1"}, client.Attachments{})
		Expect(client.IsTransportError(err)).To(BeTrue())
	})

	DescribeTable("re-sends the signed post across redirects",
		func(redirect int, op client.Operation, attachments client.Attachments) {
			var moved []recordedRequest
			var methods []string
			redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				mu.Lock()
				defer mu.Unlock()
				if r.URL.Path != "/moved" {
					received = append(received, recordedRequest{r.URL.Path, r.Header.Clone(), string(data)})
					http.Redirect(w, r, "/moved", redirect)
					return
				}
				methods = append(methods, r.Method)
				moved = append(moved, recordedRequest{r.URL.Path, r.Header.Clone(), string(data)})
				w.Write([]byte(`{"responseCode":0}`))
			}))
			DeferCleanup(redirecting.Close)
			px, err := client.PagaClient(ctx, testLogger(),
				client.WithPagaIdentity(testIdentity()),
				client.WithPagaHosts(client.Hosts{Test: redirecting.URL}),
			)
			Expect(err).To(BeNil())

			body, err := px.Invoke(ctx, op, map[string]any{"referenceNumber": "R1", "customerPhoneNumber": "080"}, attachments)
			Expect(err).To(BeNil())
			Expect(body).To(Equal(`{"responseCode":0}`))
			Expect(received).To(HaveLen(1))
			Expect(moved).To(HaveLen(1))
			Expect(methods).To(Equal([]string{http.MethodPost}))
			Expect(moved[0].Body).NotTo(BeEmpty())
			Expect(moved[0].Body).To(Equal(received[0].Body))
			for _, header := range []string{"hash", "principal", "credentials", "Content-Type"} {
				Expect(moved[0].Header.Get(header)).To(Equal(received[0].Header.Get(header)), header)
			}
		},
		Entry("json on 307", http.StatusTemporaryRedirect, moneyTransfer, client.Attachments{}),
		Entry("json on 308", http.StatusPermanentRedirect, moneyTransfer, client.Attachments{}),
		Entry("json on 301", http.StatusMovedPermanently, moneyTransfer, client.Attachments{}),
		Entry("json on 302", http.StatusFound, moneyTransfer, client.Attachments{}),
		Entry("json on 303", http.StatusSeeOther, moneyTransfer, client.Attachments{}),
		Entry("multipart on 307", http.StatusTemporaryRedirect, accountPhoto,
			client.Attachments{AccountPhoto: &memAttachment{name: "account.jpg", data: []byte("jpeg")}}),
		Entry("multipart on 302", http.StatusFound, accountPhoto,
			client.Attachments{AccountPhoto: &memAttachment{name: "account.jpg", data: []byte("jpeg")}}),
	)

	Context("construction", func() {

		It("fails fast on missing identity fields", func() {
			_, err := client.PagaClient(ctx, testLogger(), client.WithPagaIdentity(client.Builder().Principal("p").Build()))
			Expect(client.IsConfigurationError(err)).To(BeTrue())
		})

		It("allows skipping certificate checks only in the test environment", func() {
			conf := &client.PagaConfig{ApiKey: "k", Principal: "p", Credential: "c", InsecureSkipVerify: true}
			_, err := client.PagaClient(ctx, testLogger(), client.WithPagaConfig(conf))
			Expect(client.IsConfigurationError(err)).To(BeTrue())

			conf.Test = true
			_, err = client.PagaClient(ctx, testLogger(), client.WithPagaConfig(conf))
			Expect(err).To(BeNil())
		})

		It("builds from the identity builder", func() {
			px, err := client.Builder().ApiKey("k").Principal("p").Credential("c").UseTestEnvironment(true).Client(ctx, testLogger())
			Expect(err).To(BeNil())
			Expect(px.Identity().UseTestEnvironment()).To(BeTrue())
		})
	})

	Context("attachment references", func() {

		It("resolves empty, file and object references", func() {
			att, err := px.ResolveAttachment(client.AccountPhoto, "")
			Expect(err).To(BeNil())
			Expect(att).To(BeNil())

			att, err = px.ResolveAttachment(client.AccountPhoto, "/tmp/photo.jpg")
			Expect(err).To(BeNil())
			Expect(att).To(Equal(client.FileAttachment("/tmp/photo.jpg")))

			_, err = px.ResolveAttachment(client.IdPhoto, "minio://photos/id.jpg")
			Expect(client.IsAttachmentError(err)).To(BeTrue())
		})
	})
})
