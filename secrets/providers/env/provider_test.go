package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
)

func TestProvider_Resolve(t *testing.T) {
	t.Setenv("MUSEUM_TEST_KEY", "AKIDEXAMPLE")
	t.Setenv("MUSEUM_TEST_EMPTY", "")

	p := New()
	ctx := context.Background()

	got, err := p.Resolve(ctx, secrets.SecretRef{Path: "MUSEUM_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", got.String())

	_, err = p.Resolve(ctx, secrets.SecretRef{Path: "MUSEUM_TEST_EMPTY"})
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)

	_, err = p.Resolve(ctx, secrets.SecretRef{Path: "MUSEUM_TEST_UNSET_VARIABLE"})
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
	assert.Contains(t, err.Error(), "MUSEUM_TEST_UNSET_VARIABLE")

	_, err = p.Resolve(ctx, secrets.SecretRef{})
	assert.ErrorIs(t, err, secrets.ErrInvalidRef)
}

func TestProvider_Exists(t *testing.T) {
	p := NewWithLookup(func(key string) (string, bool) {
		if key == "SET" {
			return "x", true
		}
		return "", false
	})

	ok, err := p.Exists(context.Background(), secrets.SecretRef{Path: "SET"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(context.Background(), secrets.SecretRef{Path: "UNSET"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "env", p.Name())
}
