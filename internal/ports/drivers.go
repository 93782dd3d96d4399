package ports

import (
	"context"

	"github.com/bnema/ncdrift/internal/domain"
)

// StructuredDriver manipulates policy objects over the transactional channel.
// Delete of an absent object is a no-op.
type StructuredDriver interface {
	Delete(ctx context.Context, name string) error
	CreateOrReplace(ctx context.Context, name string, clauses []domain.Clause) error
	Merge(ctx context.Context, name string, clauses []domain.Clause) error
	Remove(ctx context.Context, name string, clauses []domain.Clause) error
	ApplySetting(ctx context.Context, setting domain.Setting, enable bool) error
	Read(ctx context.Context, name string) (domain.PolicyObject, bool, error)
}

// InteractiveDriver manipulates policy objects over the line channel.
type InteractiveDriver interface {
	Run(ctx context.Context, command string) (string, error)
	ReadPolicyObject(ctx context.Context, name string) (domain.PolicyObject, bool, error)
	ConfigureClauses(ctx context.Context, name string, clauses []domain.Clause) error
	MergeClauses(ctx context.Context, name string, clauses []domain.Clause) error
	RemoveClauses(ctx context.Context, name string, clauses []domain.Clause) error
	ApplySetting(ctx context.Context, setting domain.Setting, enable bool) error
	DeletePolicyObject(ctx context.Context, name string) error
}

// DeviceSession is an open pair of channels to one device.
type DeviceSession interface {
	Device() string
	Structured() StructuredDriver
	Interactive() InteractiveDriver
	Close() error
}

type DeviceConnector interface {
	Open(ctx context.Context) (DeviceSession, error)
}
