package client

import (
	"time"

	"github.com/kod2ulz/gostart/utils"
)

const DefaultTimeout = 120 * time.Second

type PagaConfig struct {
	ApiKey             string
	Principal          string
	Credential         string
	Test               bool
	InsecureSkipVerify bool
	Timeout            time.Duration
	ConnectTimeout     time.Duration
}

func NewPagaClientConfig(prefix ...string) *PagaConfig {
	env := utils.Env.Helper(prefix...).OrDefault("PAGA_CLIENT")
	return &PagaConfig{
		ApiKey:             env.Get("API_KEY", "").String(),
		Principal:          env.Get("PRINCIPAL", "").String(),
		Credential:         env.Get("CREDENTIAL", "").String(),
		Test:               env.Get("TEST", "true").Bool(),
		InsecureSkipVerify: env.Get("INSECURE_SKIP_VERIFY", "false").Bool(),
		Timeout:            env.Get("TIMEOUT", "120s").Duration(),
		ConnectTimeout:     env.Get("CONNECT_TIMEOUT", "120s").Duration(),
	}
}

func (c PagaConfig) Identity() Identity {
	return Builder().
		ApiKey(c.ApiKey).
		Principal(c.Principal).
		Credential(c.Credential).
		UseTestEnvironment(c.Test).
		Build()
}

func (c PagaConfig) Dispatcher() DispatcherConfig {
	out := DispatcherConfig{
		Timeout:            c.Timeout,
		ConnectTimeout:     c.ConnectTimeout,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = DefaultTimeout
	}
	return out
}
