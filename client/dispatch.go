package client

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Outcome is the raw result of one send. Status is zero when no response was received.
type Outcome struct {
	Status int
	Body   string
	Err    error
}

type Dispatcher interface {
	Send(ctx context.Context, req *BuiltRequest) Outcome
}

// DispatcherConfig controls the https transport. InsecureSkipVerify disables certificate
// verification and is only accepted for the test environment.
type DispatcherConfig struct {
	Timeout            time.Duration
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{Timeout: DefaultTimeout, ConnectTimeout: DefaultTimeout}
}

type HTTPDispatcher struct {
	client *http.Client
}

func NewHTTPDispatcher(conf DispatcherConfig) *HTTPDispatcher {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = conf.InsecureSkipVerify
	transport.DialContext = (&net.Dialer{
		Timeout:   conf.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = conf.ConnectTimeout
	return NewHTTPDispatcherWithClient(&http.Client{Transport: transport, Timeout: conf.Timeout, CheckRedirect: keepMethod})
}

const maxRedirects = 10

// keepMethod re-sends the original signed POST on every redirect, including the 301, 302 and
// 303 statuses that net/http would otherwise turn into a bodyless GET.
func keepMethod(req *http.Request, via []*http.Request) (err error) {
	if len(via) >= maxRedirects {
		return errors.Errorf("stopped after %d redirects", maxRedirects)
	}
	first := via[0]
	if req.Method != first.Method && first.GetBody != nil {
		req.Method = first.Method
		if req.Body, err = first.GetBody(); err != nil {
			return errors.Wrap(err, "failed to rebuild request body for redirect")
		}
		req.GetBody = first.GetBody
		req.ContentLength = first.ContentLength
	}
	if req.URL.Host != first.URL.Host {
		return
	}
	for k, v := range first.Header {
		if _, ok := req.Header[k]; !ok {
			req.Header[k] = v
		}
	}
	return
}

func NewHTTPDispatcherWithClient(client *http.Client) *HTTPDispatcher {
	return &HTTPDispatcher{client: client}
}

// Send posts the request and follows redirects. A non-2xx status is not an error here.
func (d *HTTPDispatcher) Send(ctx context.Context, req *BuiltRequest) (out Outcome) {
	var err error
	var body io.ReadCloser
	var request *http.Request
	var response *http.Response
	if body, err = req.Body(ctx); err != nil {
		return Outcome{Err: err}
	} else if request, err = http.NewRequestWithContext(ctx, http.MethodPost, req.Url, body); err != nil {
		body.Close()
		return Outcome{Err: errors.Wrap(err, "failed to create request")}
	}
	request.Header = req.Header.Clone()
	request.GetBody = func() (io.ReadCloser, error) { return req.Body(ctx) }
	if response, err = d.client.Do(request); err != nil {
		return Outcome{Err: err}
	}
	defer response.Body.Close()
	out.Status = response.StatusCode
	data, err := io.ReadAll(response.Body)
	out.Body = string(data)
	if err != nil {
		out.Err = errors.Wrap(err, "failed to read response body")
	}
	return
}
