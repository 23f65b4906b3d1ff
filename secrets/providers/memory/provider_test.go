package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
)

func TestProvider_StoreResolve(t *testing.T) {
	ctx := context.Background()
	p := New()
	ref := secrets.SecretRef{Path: "AWS_ACCESS_KEY_ID"}

	require.NoError(t, p.Store(ctx, ref, []byte("AKIDEXAMPLE")))

	got, err := p.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", got.String())
	assert.Equal(t, "latest", got.Version)

	ok, err := p.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProvider_Versions(t *testing.T) {
	ctx := context.Background()
	p := New()

	require.NoError(t, p.Store(ctx, secrets.SecretRef{Path: "key", Version: "v1"}, []byte("one")))
	require.NoError(t, p.Store(ctx, secrets.SecretRef{Path: "key", Version: "v2"}, []byte("two")))

	got, err := p.Resolve(ctx, secrets.SecretRef{Path: "key", Version: "v1"})
	require.NoError(t, err)
	assert.Equal(t, "one", got.String())

	_, err = p.Resolve(ctx, secrets.SecretRef{Path: "key"})
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}

func TestProvider_ResolveReturnsCopy(t *testing.T) {
	ctx := context.Background()
	p := New()
	ref := secrets.SecretRef{Path: "key"}
	require.NoError(t, p.Store(ctx, ref, []byte("value")))

	got, err := p.Resolve(ctx, ref)
	require.NoError(t, err)
	got.Clear()

	again, err := p.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "value", again.String())
}

func TestProvider_Close(t *testing.T) {
	ctx := context.Background()
	p := New()
	ref := secrets.SecretRef{Path: "key"}
	require.NoError(t, p.Store(ctx, ref, []byte("value")))

	require.NoError(t, p.Close())

	ok, err := p.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Resolve(ctx, secrets.SecretRef{Path: "key"})
	assert.ErrorIs(t, err, context.Canceled)
}
