package keyencoding

import (
	"encoding/json"
	"fmt"
)

type encodeOptions struct {
	variant      MultibaseVariant
	jwkAlgorithm string
}

// EncodeOpt configures Encode.
type EncodeOpt func(opts *encodeOptions)

// WithMultibaseVariant selects the multibase alphabet. The default is base58btc.
func WithMultibaseVariant(v MultibaseVariant) EncodeOpt {
	return func(opts *encodeOptions) {
		opts.variant = v
	}
}

// WithJWKAlgorithm sets the "alg" member of encoded JWKs.
func WithJWKAlgorithm(alg string) EncodeOpt {
	return func(opts *encodeOptions) {
		opts.jwkAlgorithm = alg
	}
}

// Encode renders b as the JSON value of the kind's field. It is the inverse of Decode.
func Encode(kind Kind, b []byte, opts ...EncodeOpt) (json.RawMessage, error) {
	options := &encodeOptions{variant: MultibaseBase58BTC}
	for _, opt := range opts {
		opt(options)
	}

	var (
		s   string
		err error
	)

	switch kind {
	case Base58:
		s = EncodeBase58(b)
	case Base64:
		s = EncodeBase64(b)
	case Hex:
		s = EncodeHex(b)
	case Multibase:
		s, err = EncodeMultibase(options.variant, b)
	case PEM:
		s = EncodePEM(b)
	case JWK:
		return EncodeJWK(b, options.jwkAlgorithm)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", kind)
	}

	if err != nil {
		return nil, err
	}

	return json.Marshal(s)
}
