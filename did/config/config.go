package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
)

// Default values
const (
	DefaultLogLevel          = "info"
	DefaultParallelism       = 4
	DefaultSignatureEncoding = "base58"
)

// Environment variable names
const (
	EnvLogLevel          = "DIDENVELOPE_LOG_LEVEL"
	EnvParallelism       = "DIDENVELOPE_PARALLELISM"
	EnvAllowedNetworks   = "DIDENVELOPE_ALLOWED_NETWORKS"
	EnvSignatureEncoding = "DIDENVELOPE_SIGNATURE_ENCODING"
)

// LogLevel returns the log level from environment variable or default value
func LogLevel() slog.Level {
	return ParseLogLevel(os.Getenv(EnvLogLevel))
}

// ParseLogLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}

	return level
}

// Parallelism returns the number of signatures verified at once from environment variable or default value
func Parallelism() int {
	if s := os.Getenv(EnvParallelism); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return DefaultParallelism
}

// AllowedNetworks returns the network allow-list. Empty means any network.
func AllowedNetworks() []string {
	return SplitList(os.Getenv(EnvAllowedNetworks))
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NetworkPolicy returns the configured network allow-list as a policy
func NetworkPolicy() *did.NetworkPolicy {
	return did.NewNetworkPolicy(AllowedNetworks()...)
}

// SignatureEncoding returns how signers write signature values from environment variable or default value
func SignatureEncoding() keyencoding.Kind {
	return ParseSignatureEncoding(os.Getenv(EnvSignatureEncoding))
}

// ParseSignatureEncoding accepts "base58" or "base64" in any case. Anything else is base58.
func ParseSignatureEncoding(s string) keyencoding.Kind {
	if strings.EqualFold(strings.TrimSpace(s), string(keyencoding.Base64)) {
		return keyencoding.Base64
	}
	return keyencoding.Base58
}
