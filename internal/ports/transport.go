package ports

import (
	"context"
	"fmt"

	"github.com/bnema/ncdrift/internal/domain"
)

// RPCSession exchanges raw XML RPCs. Exec returns the reply body inside
// <rpc-reply>, or an RPCError when the server answered with an error.
type RPCSession interface {
	Exec(ctx context.Context, rpc string) (string, error)
	Capabilities() []string
	Close() error
}

// RPCError is an rpc-error returned by the server.
type RPCError struct {
	Type     string
	Tag      string
	Severity string
	Path     string
	Message  string
}

func (e RPCError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rpc-error %s (%s): %s", e.Tag, e.Path, e.Message)
	}
	return fmt.Sprintf("rpc-error %s: %s", e.Tag, e.Message)
}

// LineSession sends one command and returns its output once the prompt returns.
type LineSession interface {
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// PolicyParser turns show output into a policy object.
type PolicyParser interface {
	Command(name string) string
	Parse(name, output string) (domain.PolicyObject, bool, error)
}
