package client

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	TestServer = "https://beta.mypaga.com"
	LiveServer = "https://www.mypaga.com"
	BasePath   = "paga-webservices/business-rest/secured"
)

type Endpoint struct {
	Method string
	Uri    string
}

func (e Endpoint) Url(host string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(host, "/"), e.Uri)
}

// Hosts holds the base urls of both environments.
type Hosts struct {
	Test string
	Live string
}

var DefaultHosts = Hosts{Test: TestServer, Live: LiveServer}

func (h Hosts) Host(useTest bool) string {
	if useTest {
		return h.Test
	}
	return h.Live
}

// Resolve returns the fully qualified url of the operation path in the selected environment.
func (h Hosts) Resolve(useTest bool, path string) string {
	return OperationEndpoint(path).Url(h.Host(useTest))
}

func Resolve(useTest bool, path string) string {
	return DefaultHosts.Resolve(useTest, path)
}

func OperationEndpoint(path string) Endpoint {
	return Endpoint{http.MethodPost, fmt.Sprintf("%s/%s", BasePath, strings.TrimPrefix(path, "/"))}
}
