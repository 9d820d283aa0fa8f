package keyencoding

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// DecodeBase58 decodes a bitcoin-alphabet base58 string.
func DecodeBase58(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyPayload
	}

	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}

	return b, nil
}

// EncodeBase58 encodes with the bitcoin alphabet.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase64 decodes standard-alphabet base64. Padded input must be padded correctly;
// unpadded input is accepted when it is otherwise canonical.
func DecodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyPayload
	}

	enc := base64.RawStdEncoding.Strict()
	if strings.HasSuffix(s, "=") {
		enc = base64.StdEncoding.Strict()
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}

	return b, nil
}

// EncodeBase64 encodes with the padded standard alphabet.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeHex decodes hex, with or without a "0x" prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, errEmptyPayload
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	return b, nil
}

// EncodeHex encodes as lowercase hex with the "0x" prefix.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
