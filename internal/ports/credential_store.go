package ports

import "context"

// CredentialStore resolves a password reference such as "pass://lab/csr1"
// or "file://lab/csr1" to its secret value.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
}
