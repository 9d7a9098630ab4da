package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPINAuthorizer(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash("2468")
	require.NoError(t, err)
	auth := PINAuthorizer{Hash: hash, Hasher: hasher}
	ctx := context.Background()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
	}{
		{"missing", ctx, ErrPINRequired},
		{"wrong", WithPIN(ctx, "1357"), ErrPINInvalid},
		{"right", WithPIN(ctx, "2468"), nil},
		{"trusted", WithTrusted(ctx), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.Authorize(tt.ctx, nil)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPINAuthorizerDisabledWithoutHash(t *testing.T) {
	auth := PINAuthorizer{}
	assert.False(t, auth.Enabled())
	assert.NoError(t, auth.Authorize(context.Background(), nil))
	assert.NoError(t, auth.Check(""))
}
