package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kod2ulz/paga-business/api"
	"github.com/kod2ulz/paga-business/client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type callFlags struct {
	Data         string
	Params       []string
	JSONParams   []string
	AccountPhoto string
	IdPhoto      string
}

func newCallCmd() *cobra.Command {
	var cf callFlags
	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Invoke a paga business operation",
		Example: `  paga call getBanks
  paga call moneyTransfer -p referenceNumber=TXN-1 --json amount=100.00 -p destinationAccount=08011112222
  paga call registerCustomerAccountPhoto -p customerPhoneNumber=08011112222 --account-photo ./photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildParams(cf.Data, cf.Params, cf.JSONParams)
			if err != nil {
				return err
			}
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			px, err := newPagaApi(cmd.Context(), newLogger(cmd), conf)
			if err != nil {
				return err
			}
			photos := api.Photos{AccountPhoto: cf.AccountPhoto, IdPhoto: cf.IdPhoto}
			body, err := px.Call(cmd.Context(), args[0], params, photos)
			if remote, ok := client.IsRemoteError(err); ok {
				fmt.Fprintln(cmd.OutOrStdout(), remote.Body)
				return err
			} else if err != nil {
				return err
			}
			return writeResponse(cmd.OutOrStdout(), body, flags.JQ)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&cf.Data, "data", "d", "", "json object with all request parameters")
	fs.StringArrayVarP(&cf.Params, "param", "p", nil, "string parameter as key=value (repeatable)")
	fs.StringArrayVar(&cf.JSONParams, "json", nil, "json valued parameter as key=<json> (repeatable)")
	fs.StringVar(&cf.AccountPhoto, "account-photo", "", "customer account photo path or minio://bucket/key")
	fs.StringVar(&cf.IdPhoto, "id-photo", "", "customer identification photo path or minio://bucket/key")
	return cmd
}

func decodeJSON(data string, out any) error {
	decoder := json.NewDecoder(bytes.NewReader([]byte(data)))
	decoder.UseNumber()
	return decoder.Decode(out)
}

func splitPair(pair string) (key, value string, err error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", errors.Errorf("parameter %q must be key=value", pair)
	}
	return strings.TrimSpace(key), value, nil
}

// buildParams merges --data, then --param strings, then --json values.
func buildParams(data string, pairs, jsonPairs []string) (out client.Params, err error) {
	out = client.Params{}
	if strings.TrimSpace(data) != "" {
		if err = decodeJSON(data, &out); err != nil {
			return nil, errors.Wrap(err, "--data must be a json object")
		}
	}
	for _, pair := range pairs {
		key, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	for _, pair := range jsonPairs {
		var value any
		key, raw, err := splitPair(pair)
		if err != nil {
			return nil, err
		} else if err = decodeJSON(raw, &value); err != nil {
			return nil, errors.Wrapf(err, "--json %s is not valid json", key)
		}
		out[key] = value
	}
	return
}
