package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", cost: "", wantCost: 12},
		{name: "minimum cost", cost: "10", wantCost: 10},
		{name: "maximum cost", cost: "14", wantCost: 14},
		{name: "cost too low", cost: "9", wantErr: true},
		{name: "cost too high", cost: "15", wantErr: true},
		{name: "non-numeric cost", cost: "invalid", wantErr: true},
		{name: "float cost", cost: "12.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", "")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	again, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt hashes are salted")

	assert.NoError(t, cfg.VerifyPassword("correct horse", hash))
	assert.ErrorIs(t, cfg.VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-123"}
	hash, err := peppered.HashPassword("secret")
	require.NoError(t, err)

	assert.NoError(t, peppered.VerifyPassword("secret", hash))

	plain := &PasswordConfig{BcryptCost: 10}
	assert.ErrorIs(t, plain.VerifyPassword("secret", hash), ErrPasswordMismatch)
}

func TestPasswordConfig_MalformedHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	err := cfg.VerifyPassword("secret", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPasswordMismatch))
}
