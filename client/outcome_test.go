package client_test

import (
	"net/http"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kod2ulz/paga-business/client"
)

var _ = Describe("Outcome", func() {

	It("classifies 200 as success", func() {
		outcome := client.Outcome{Status: http.StatusOK, Body: `{"ok":true}`}
		Expect(client.Classify(outcome)).To(Equal(client.OutcomeSuccess))
		body, err := outcome.Result("getBanks")
		Expect(err).To(BeNil())
		Expect(body).To(Equal(`{"ok":true}`))
	})

	It("classifies other statuses as remote errors carrying the body", func() {
		for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
			outcome := client.Outcome{Status: status, Body: `{"errorMessage":"boom"}`}
			Expect(client.Classify(outcome)).To(Equal(client.OutcomeRemoteError))
			body, err := outcome.Result("moneyTransfer")
			remote, ok := client.IsRemoteError(err)
			Expect(ok).To(BeTrue())
			Expect(remote.Status).To(Equal(status))
			Expect(remote.Body).To(Equal(`{"errorMessage":"boom"}`))
			Expect(remote.Operation).To(Equal("moneyTransfer"))
			Expect(body).To(Equal(remote.Body))
		}
	})

	It("classifies failures without a status as transport errors", func() {
		outcome := client.Outcome{Err: errors.New("connection refused")}
		Expect(client.Classify(outcome)).To(Equal(client.OutcomeTransportError))
		_, err := outcome.Result("getBanks")
		Expect(client.IsTransportError(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})

	It("prefers the transport error over a status", func() {
		outcome := client.Outcome{Status: http.StatusOK, Body: "partial", Err: errors.New("read reset")}
		Expect(client.Classify(outcome)).To(Equal(client.OutcomeTransportError))
	})

	It("recognises attachment failures inside transport errors", func() {
		cause := &client.AttachmentError{Role: client.AccountPhoto, Ref: "a.jpg", Err: errors.New("unreadable")}
		outcome := client.Outcome{Err: errors.Wrap(cause, "Post")}
		Expect(client.Classify(outcome)).To(Equal(client.OutcomeAttachmentError))
		_, err := outcome.Result("registerCustomerAccountPhoto")
		Expect(err).To(Equal(cause))
	})

	It("labels kinds", func() {
		Expect(client.OutcomeSuccess.String()).To(Equal("success"))
		Expect(client.OutcomeRemoteError.String()).To(Equal("remote_error"))
		Expect(client.OutcomeTransportError.String()).To(Equal("transport_error"))
		Expect(client.OutcomeAttachmentError.String()).To(Equal("attachment_error"))
	})
})
