package keyencoding

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/multiformats/go-multibase"
)

// MultibaseVariant is a multibase alphabet, identified by its prefix character.
type MultibaseVariant byte

// Supported multibase variants.
const (
	MultibaseBase2             MultibaseVariant = '0'
	MultibaseBase8             MultibaseVariant = '7'
	MultibaseBase10            MultibaseVariant = '9'
	MultibaseBase16            MultibaseVariant = 'f'
	MultibaseBase16Upper       MultibaseVariant = 'F'
	MultibaseBase32            MultibaseVariant = 'b'
	MultibaseBase32Upper       MultibaseVariant = 'B'
	MultibaseBase32Pad         MultibaseVariant = 'c'
	MultibaseBase32PadUpper    MultibaseVariant = 'C'
	MultibaseBase32Hex         MultibaseVariant = 'v'
	MultibaseBase32HexUpper    MultibaseVariant = 'V'
	MultibaseBase32HexPad      MultibaseVariant = 't'
	MultibaseBase32HexPadUpper MultibaseVariant = 'T'
	MultibaseBase36            MultibaseVariant = 'k'
	MultibaseBase36Upper       MultibaseVariant = 'K'
	MultibaseBase58BTC         MultibaseVariant = 'z'
	MultibaseBase58Flickr      MultibaseVariant = 'Z'
	MultibaseBase64            MultibaseVariant = 'm'
	MultibaseBase64Pad         MultibaseVariant = 'M'
	MultibaseBase64URL         MultibaseVariant = 'u'
	MultibaseBase64URLPad      MultibaseVariant = 'U'
)

type multibaseCodec struct {
	name   string
	encode func(b []byte) (string, error)
	// decode receives the full string, prefix included.
	decode func(s string) ([]byte, error)
}

var multibaseCodecs = map[MultibaseVariant]multibaseCodec{
	MultibaseBase2:             localCodec("base2", encodeBase2, decodeBase2),
	MultibaseBase8:             localCodec("base8", encodeBase8, decodeBase8),
	MultibaseBase10:            localCodec("base10", encodeBase10, decodeBase10),
	MultibaseBase16:            libraryCodec("base16", multibase.Base16),
	MultibaseBase16Upper:       libraryCodec("base16upper", multibase.Base16Upper),
	MultibaseBase32:            libraryCodec("base32", multibase.Base32),
	MultibaseBase32Upper:       libraryCodec("base32upper", multibase.Base32Upper),
	MultibaseBase32Pad:         libraryCodec("base32pad", multibase.Base32pad),
	MultibaseBase32PadUpper:    libraryCodec("base32padupper", multibase.Base32padUpper),
	MultibaseBase32Hex:         libraryCodec("base32hex", multibase.Base32hex),
	MultibaseBase32HexUpper:    libraryCodec("base32hexupper", multibase.Base32hexUpper),
	MultibaseBase32HexPad:      libraryCodec("base32hexpad", multibase.Base32hexPad),
	MultibaseBase32HexPadUpper: libraryCodec("base32hexpadupper", multibase.Base32hexPadUpper),
	MultibaseBase36:            libraryCodec("base36", multibase.Base36),
	MultibaseBase36Upper:       libraryCodec("base36upper", multibase.Base36Upper),
	MultibaseBase58BTC:         libraryCodec("base58btc", multibase.Base58BTC),
	MultibaseBase58Flickr:      libraryCodec("base58flickr", multibase.Base58Flickr),
	MultibaseBase64:            libraryCodec("base64", multibase.Base64),
	MultibaseBase64Pad:         libraryCodec("base64pad", multibase.Base64pad),
	MultibaseBase64URL:         libraryCodec("base64url", multibase.Base64url),
	MultibaseBase64URLPad:      libraryCodec("base64urlpad", multibase.Base64urlPad),
}

// MultibaseVariants returns every supported variant.
func MultibaseVariants() []MultibaseVariant {
	variants := make([]MultibaseVariant, 0, len(multibaseCodecs))
	for v := range multibaseCodecs {
		variants = append(variants, v)
	}

	return variants
}

// Name returns the multibase table name of the variant, or "" if unsupported.
func (v MultibaseVariant) Name() string {
	return multibaseCodecs[v].name
}

// DecodeMultibase decodes a multibase string and reports the variant name.
func DecodeMultibase(s string) ([]byte, string, error) {
	if s == "" {
		return nil, "", errEmptyPayload
	}

	codec, ok := multibaseCodecs[MultibaseVariant(s[0])]
	if !ok {
		return nil, "", fmt.Errorf("unknown multibase prefix %q", s[0])
	}

	if len(s) == 1 {
		return nil, "", errEmptyPayload
	}

	b, err := codec.decode(s)
	if err != nil {
		return nil, "", fmt.Errorf("invalid %s: %w", codec.name, err)
	}

	return b, codec.name, nil
}

// EncodeMultibase encodes b with the given variant, prefix included.
func EncodeMultibase(v MultibaseVariant, b []byte) (string, error) {
	codec, ok := multibaseCodecs[v]
	if !ok {
		return "", fmt.Errorf("unsupported multibase variant %q", byte(v))
	}

	body, err := codec.encode(b)
	if err != nil {
		return "", err
	}

	return string(rune(v)) + body, nil
}

func libraryCodec(name string, enc multibase.Encoding) multibaseCodec {
	return multibaseCodec{
		name: name,
		encode: func(b []byte) (string, error) {
			s, err := multibase.Encode(enc, b)
			if err != nil {
				return "", err
			}

			return s[1:], nil
		},
		decode: func(s string) ([]byte, error) {
			got, b, err := multibase.Decode(s)
			if err != nil {
				return nil, err
			}

			if got != enc {
				return nil, fmt.Errorf("decoded as %s", multibase.EncodingToStr[got])
			}

			return b, nil
		},
	}
}

func localCodec(name string, encode func([]byte) string, decode func(string) ([]byte, error)) multibaseCodec {
	return multibaseCodec{
		name: name,
		encode: func(b []byte) (string, error) {
			return encode(b), nil
		},
		decode: func(s string) ([]byte, error) {
			return decode(s[1:])
		},
	}
}

var errNonCanonical = errors.New("non-canonical trailing bits")

// encodeBits writes b as groups of width bits, most significant first, zero-padding the last group.
func encodeBits(b []byte, width uint) string {
	var (
		sb    strings.Builder
		acc   uint
		nbits uint
	)

	mask := uint(1)<<width - 1

	for _, c := range b {
		acc = acc<<8 | uint(c)
		nbits += 8

		for nbits >= width {
			nbits -= width
			sb.WriteByte(byte('0' + (acc>>nbits)&mask))
		}

		acc &= 1<<nbits - 1
	}

	if nbits > 0 {
		sb.WriteByte(byte('0' + (acc<<(width-nbits))&mask))
	}

	return sb.String()
}

func decodeBits(s string, width uint) ([]byte, error) {
	var (
		out   = make([]byte, 0, len(s)*int(width)/8)
		acc   uint
		nbits uint
	)

	limit := byte('0' + 1<<width)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c >= limit {
			return nil, fmt.Errorf("invalid character %q at offset %d", c, i)
		}

		acc = acc<<width | uint(c-'0')
		nbits += width

		if nbits >= 8 {
			nbits -= 8
			out = append(out, byte(acc>>nbits))
		}

		acc &= 1<<nbits - 1
	}

	if nbits >= width || acc != 0 {
		return nil, errNonCanonical
	}

	return out, nil
}

func encodeBase2(b []byte) string {
	return encodeBits(b, 1)
}

func decodeBase2(s string) ([]byte, error) {
	if len(s)%8 != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of 8", len(s))
	}

	return decodeBits(s, 1)
}

func encodeBase8(b []byte) string {
	return encodeBits(b, 3)
}

func decodeBase8(s string) ([]byte, error) {
	return decodeBits(s, 3)
}

// Base10 keeps leading zero bytes as leading '0' digits, like base58.
func encodeBase10(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	digits := ""
	if zeros < len(b) {
		digits = new(big.Int).SetBytes(b[zeros:]).String()
	}

	return strings.Repeat("0", zeros) + digits
}

func decodeBase10(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == '0' {
		zeros++
	}

	out := make([]byte, zeros)
	if zeros == len(s) {
		return out, nil
	}

	rest := s[zeros:]
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return nil, fmt.Errorf("invalid character %q at offset %d", rest[i], zeros+i)
		}
	}

	n, ok := new(big.Int).SetString(rest, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q", rest)
	}

	return append(out, n.Bytes()...), nil
}
