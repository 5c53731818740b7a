package client

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ValueEncoder converts one parameter value into the exact text that enters the signature.
type ValueEncoder func(value any) (string, error)

// DeriveSignature concatenates values in order, appends the secret and returns the lowercase
// hex SHA-512 digest.
func DeriveSignature(values []string, secret string) string {
	hash := sha512.New()
	for i := range values {
		hash.Write([]byte(values[i]))
	}
	hash.Write([]byte(secret))
	return hex.EncodeToString(hash.Sum(nil))
}

// EncodeSignatureValue renders strings and numbers in their canonical decimal form and absent
// values as the empty string. Booleans and nested values are rejected since their rendering is
// not fixed by the remote contract; configure WithSignatureEncoder to sign them.
func EncodeSignatureValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return "", errors.Errorf("boolean signature values have no agreed encoding")
	}
	return "", errors.Errorf("unsupported signature value of type %T", value)
}

// SignatureInput picks the signature fields out of params in order. Missing fields contribute
// an empty string.
func SignatureInput(params Params, fields []string, encode ValueEncoder) (out []string, err error) {
	if encode == nil {
		encode = EncodeSignatureValue
	}
	out = make([]string, len(fields))
	for i, field := range fields {
		value, _ := params.Lookup(field)
		if out[i], err = encode(value); err != nil {
			return nil, errors.Wrapf(err, "failed to encode signature field %s", field)
		}
	}
	return
}
