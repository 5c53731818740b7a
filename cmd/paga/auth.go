package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/kod2ulz/paga-business/client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored paga credentials",
	}
	cmd.AddCommand(newLoginCmd(), newLogoutCmd(), newStatusCmd())
	return cmd
}

func newLoginCmd() *cobra.Command {
	var creds Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in := bufio.NewReader(cmd.InOrStdin())
			if creds.Principal == "" {
				if creds.Principal, err = prompt(cmd, in, "principal"); err != nil {
					return
				}
			}
			if creds.Credential == "" {
				if creds.Credential, err = prompt(cmd, in, "credential"); err != nil {
					return
				}
			}
			if creds.ApiKey == "" {
				if creds.ApiKey, err = prompt(cmd, in, "api key"); err != nil {
					return
				}
			}
			identity := client.Builder().
				ApiKey(creds.ApiKey).
				Principal(creds.Principal).
				Credential(creds.Credential).
				Build()
			if err = identity.Validate(); err != nil {
				return
			} else if err = SaveCredentials(creds); err != nil {
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored credentials for %s\n", creds.Principal)
			return
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&creds.Principal, "principal", "", "business principal")
	fs.StringVar(&creds.Credential, "credential", "", "business credential")
	fs.StringVar(&creds.ApiKey, "api-key", "", "hmac api key")
	return cmd
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	line, err := in.ReadString('\n')
	if line = strings.TrimSpace(line); line == "" {
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", label)
		}
		return "", errors.Errorf("%s is required", label)
	}
	return line, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteCredentials(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "credentials removed")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials will be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			identity := conf.Identity()
			if err = identity.Validate(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not configured: run 'paga auth login'")
				return err
			}
			environment := "live"
			if identity.UseTestEnvironment() {
				environment = "test"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "principal: %s\nenvironment: %s\nhost: %s\n",
				identity.Principal(), environment, client.DefaultHosts.Host(identity.UseTestEnvironment()))
			return nil
		},
	}
}
