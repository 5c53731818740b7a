package client

import (
	"context"
	"fmt"

	"github.com/kod2ulz/gostart/logr"
)

const maskedSecret = "****"

// Identity is the caller's authentication material. The api key only ever feeds the
// signature; principal and credential travel as headers.
type Identity struct {
	apiKey     string
	principal  string
	credential string
	test       bool
}

func (i Identity) Principal() string {
	return i.principal
}

func (i Identity) Credential() string {
	return i.credential
}

func (i Identity) UseTestEnvironment() bool {
	return i.test
}

func (i Identity) Validate() error {
	var missing []string
	if i.apiKey == "" {
		missing = append(missing, "apiKey")
	}
	if i.principal == "" {
		missing = append(missing, "principal")
	}
	if i.credential == "" {
		missing = append(missing, "credential")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Fields: missing, Reason: "required identity fields not set"}
	}
	return nil
}

func (i Identity) Sign(values []string) string {
	return DeriveSignature(values, i.apiKey)
}

func (i Identity) String() string {
	return fmt.Sprintf("Identity{principal: %s, credential: %s, apiKey: %s, test: %t}",
		i.principal, mask(i.credential), mask(i.apiKey), i.test)
}

func (i Identity) GoString() string {
	return i.String()
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedSecret
}

type IdentityBuilder struct {
	identity Identity
}

func Builder() *IdentityBuilder {
	return &IdentityBuilder{}
}

func (b *IdentityBuilder) ApiKey(apiKey string) *IdentityBuilder {
	b.identity.apiKey = apiKey
	return b
}

func (b *IdentityBuilder) Principal(principal string) *IdentityBuilder {
	b.identity.principal = principal
	return b
}

func (b *IdentityBuilder) Credential(credential string) *IdentityBuilder {
	b.identity.credential = credential
	return b
}

func (b *IdentityBuilder) UseTestEnvironment(test bool) *IdentityBuilder {
	b.identity.test = test
	return b
}

// Build returns the identity as set. Validation happens when a client is created from it.
func (b *IdentityBuilder) Build() Identity {
	return b.identity
}

// Client builds the identity and creates a client from it.
func (b *IdentityBuilder) Client(ctx context.Context, log *logr.Logger, opts ...PagaClientOption) (*Paga, error) {
	return PagaClient(ctx, log, append([]PagaClientOption{WithPagaIdentity(b.Build())}, opts...)...)
}
