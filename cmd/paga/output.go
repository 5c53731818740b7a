package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/pkg/errors"
)

func writeResponse(w io.Writer, body, expression string) error {
	if expression == "" {
		_, err := fmt.Fprintln(w, body)
		return err
	}
	results, err := applyFilter(body, expression)
	if err != nil {
		return err
	}
	for _, result := range results {
		data, err := json.Marshal(result)
		if err != nil {
			return errors.Wrap(err, "failed to encode filter result")
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func applyFilter(body, expression string) (out []any, err error) {
	var data any
	var query *gojq.Query
	if query, err = gojq.Parse(expression); err != nil {
		return nil, errors.Wrap(err, "invalid jq expression")
	} else if err = json.Unmarshal([]byte(body), &data); err != nil {
		return nil, errors.Wrap(err, "response is not json")
	}
	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		} else if err, ok := v.(error); ok {
			return nil, errors.Wrap(err, "filter error")
		}
		out = append(out, v)
	}
	return
}
