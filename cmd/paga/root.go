package main

import (
	"context"
	"io"
	"time"

	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/paga-business/api"
	"github.com/kod2ulz/paga-business/client"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootFlags struct {
	Test     bool
	Insecure bool
	Timeout  time.Duration
	JQ       string
	Debug    bool
}

// flags is reset on every Execute call.
var flags rootFlags

// newPagaApi builds the facade used by commands. Tests replace it.
var newPagaApi = func(ctx context.Context, log *logr.Logger, conf *client.PagaConfig) (api.PagaApi, error) {
	return api.Paga(ctx, log, api.WithPagaClientConfig(conf))
}

func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	flags = rootFlags{Test: true, Timeout: client.DefaultTimeout}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "paga",
		Short:         "Call the Paga business api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	registerRootFlags(root.PersistentFlags())
	root.AddCommand(newCallCmd(), newOperationsCmd(), newAuthCmd())
	return root
}

func registerRootFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&flags.Test, "test", flags.Test, "use the paga test environment")
	fs.BoolVar(&flags.Insecure, "insecure", false, "skip tls certificate verification (test environment only)")
	fs.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "connect and request timeout")
	fs.StringVar(&flags.JQ, "jq", "", "jq expression applied to the json response")
	fs.BoolVar(&flags.Debug, "debug", false, "log request and response details")
}

func newLogger(cmd *cobra.Command) *logr.Logger {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(logrus.WarnLevel)
	if flags.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return &logr.Logger{Entry: logrus.NewEntry(log).WithField("app", "paga")}
}

// loadConfig reads the environment, fills missing secrets from the keyring and applies flags.
func loadConfig(cmd *cobra.Command) (conf *client.PagaConfig, err error) {
	var creds Credentials
	conf = client.NewPagaClientConfig()
	if conf.ApiKey == "" || conf.Principal == "" || conf.Credential == "" {
		if creds, err = LoadCredentials(); err != nil {
			return nil, err
		}
		conf.ApiKey = firstNonEmpty(conf.ApiKey, creds.ApiKey)
		conf.Principal = firstNonEmpty(conf.Principal, creds.Principal)
		conf.Credential = firstNonEmpty(conf.Credential, creds.Credential)
	}
	persistent := cmd.Root().PersistentFlags()
	if persistent.Changed("test") {
		conf.Test = flags.Test
	}
	if persistent.Changed("insecure") {
		conf.InsecureSkipVerify = flags.Insecure
	}
	if persistent.Changed("timeout") {
		conf.Timeout, conf.ConnectTimeout = flags.Timeout, flags.Timeout
	}
	return
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
