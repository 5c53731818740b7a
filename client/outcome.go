package client

import (
	"net/http"

	"github.com/pkg/errors"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRemoteError
	OutcomeTransportError
	OutcomeAttachmentError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRemoteError:
		return "remote_error"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeAttachmentError:
		return "attachment_error"
	}
	return "unknown"
}

// Classify checks the transport error before the status. Only 200 counts as success; a
// business failure reported inside a 200 body is not detected.
func Classify(o Outcome) OutcomeKind {
	if o.Err != nil {
		if IsAttachmentError(o.Err) {
			return OutcomeAttachmentError
		}
		return OutcomeTransportError
	} else if o.Status == http.StatusOK {
		return OutcomeSuccess
	}
	return OutcomeRemoteError
}

// Result returns the body on success, otherwise the typed error for the outcome.
func (o Outcome) Result(operation string) (string, error) {
	switch Classify(o) {
	case OutcomeSuccess:
		return o.Body, nil
	case OutcomeAttachmentError:
		var target *AttachmentError
		errors.As(o.Err, &target)
		return "", target
	case OutcomeTransportError:
		return "", &TransportError{Operation: operation, Err: o.Err}
	}
	return o.Body, &RemoteError{Operation: operation, Status: o.Status, Body: o.Body}
}
