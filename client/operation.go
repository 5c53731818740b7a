package client

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Transport int

const (
	TransportJSON Transport = iota
	TransportMultipart
)

func (t Transport) String() string {
	switch t {
	case TransportJSON:
		return "json"
	case TransportMultipart:
		return "multipart"
	}
	return "unknown"
}

// Operation describes one business endpoint. SignatureFields is the wire order in which
// parameter values are hashed and must not be reordered.
type Operation struct {
	Name            string
	Path            string
	SignatureFields []string
	Transport       Transport
}

func (o Operation) Endpoint() Endpoint {
	return OperationEndpoint(o.Path)
}

const (
	fieldSeparator = "."
	fieldCount     = "#"
)

// Params is the decoded form of a request payload used for signature field lookup.
type Params map[string]any

// ToParams converts a request payload into Params. Structs are passed through their json
// encoding so that field names match the wire names, numbers are kept as json.Number.
func ToParams(payload any) (out Params, err error) {
	switch v := payload.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return v, nil
	case map[string]any:
		return Params(v), nil
	}
	var data []byte
	if data, err = json.Marshal(payload); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %T payload", payload)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err = decoder.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "payload %T is not a json object", payload)
	}
	return
}

// Lookup resolves a dotted field path. Numeric segments index into lists and the "#"
// segment yields the length of the list it follows.
func (p Params) Lookup(path string) (out any, ok bool) {
	var current any = map[string]any(p)
	for _, segment := range strings.Split(path, fieldSeparator) {
		switch node := current.(type) {
		case map[string]any:
			if current, ok = node[segment]; !ok {
				return nil, false
			}
		case Params:
			if current, ok = node[segment]; !ok {
				return nil, false
			}
		case []any:
			if segment == fieldCount {
				current = len(node)
				continue
			}
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}
