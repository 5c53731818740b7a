package client

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ConfigurationError reports missing or inconsistent client settings.
type ConfigurationError struct {
	Fields []string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("paga client misconfigured: %s", e.Reason)
	}
	return fmt.Sprintf("paga client misconfigured: %s [%s]", e.Reason, strings.Join(e.Fields, ", "))
}

// TransportError is a network, TLS or timeout failure. The request may or may not have
// reached the remote service.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("paga %s: transport failure: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError carries a non-200 response verbatim.
type RemoteError struct {
	Operation string
	Status    int
	Body      string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("paga %s: remote returned status %d", e.Operation, e.Status)
}

// AttachmentError reports a photo reference that could not be found or read.
type AttachmentError struct {
	Role AttachmentRole
	Ref  string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %s (%s): %v", e.Role, e.Ref, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsAttachmentError(err error) bool {
	var target *AttachmentError
	return errors.As(err, &target)
}

// IsRemoteError reports whether err is a RemoteError and returns it.
func IsRemoteError(err error) (*RemoteError, bool) {
	var target *RemoteError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
