package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetUsesPassShowAndKeepsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "ncdrift/csr1"}, args)
			return "top-secret\r\nuser: admin\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "ncdrift/csr1")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreGetReportsMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "Error: ncdrift/csr1 is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "ncdrift/csr1")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), "ncdrift/csr1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "ncdrift/csr1")
	assert.ErrorContains(t, err, "decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			t.Fatal("pass must not run after cancellation")
			return "", "", nil
		},
	}

	_, err := store.Get(ctx, "ncdrift/csr1")
	require.ErrorIs(t, err, context.Canceled)
}
