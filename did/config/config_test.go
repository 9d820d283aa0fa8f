package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
)

func TestDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvParallelism, "")
	t.Setenv(EnvAllowedNetworks, "")
	t.Setenv(EnvSignatureEncoding, "")

	assert.Equal(t, slog.LevelInfo, LogLevel())
	assert.Equal(t, DefaultParallelism, Parallelism())
	assert.Empty(t, AllowedNetworks())
	assert.Equal(t, keyencoding.Base58, SignatureEncoding())
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvParallelism, "16")
	t.Setenv(EnvAllowedNetworks, "tcn, corda-main ,,")
	t.Setenv(EnvSignatureEncoding, "Base64")

	assert.Equal(t, slog.LevelDebug, LogLevel())
	assert.Equal(t, 16, Parallelism())
	assert.Equal(t, []string{"tcn", "corda-main"}, AllowedNetworks())
	assert.Equal(t, keyencoding.Base64, SignatureEncoding())

	policy := NetworkPolicy()
	tcn, err := did.Parse("did:corda:tcn:77ccbf5e-4ddd-4092-b813-ac06084a3eb0")
	assert.NoError(t, err)
	assert.NoError(t, policy.Check(tcn))

	other, err := did.Parse("did:corda:test-net:77ccbf5e-4ddd-4092-b813-ac06084a3eb0")
	assert.NoError(t, err)
	assert.ErrorIs(t, policy.Check(other), did.ErrNetworkNotAllowed)
}

func TestInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"Parallelism not a number", EnvParallelism, "many"},
		{"Parallelism zero", EnvParallelism, "0"},
		{"Parallelism negative", EnvParallelism, "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			assert.Equal(t, DefaultParallelism, Parallelism())
		})
	}

	assert.Equal(t, slog.LevelInfo, ParseLogLevel("loud"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, keyencoding.Base58, ParseSignatureEncoding("hex"))
}
