package netconf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	nc "github.com/Juniper/go-netconf/netconf"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"golang.org/x/crypto/ssh"
)

var _ ports.RPCSession = (*Session)(nil)

// Session serializes RPCs over one go-netconf session. An RPC abandoned by its
// context leaves the session unusable and closes it, which also releases any
// datastore lock the session held.
type Session struct {
	mu     sync.Mutex
	client *nc.Session
	broken error

	closeOnce sync.Once
	closeErr  error
}

func Dial(ctx context.Context, address string, config *ssh.ClientConfig) (*Session, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial netconf %s: %w", address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else if config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	}

	client, err := nc.NewSSHSession(conn, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("netconf hello %s: %w", address, err)
	}
	_ = conn.SetDeadline(time.Time{})

	return &Session{client: client}, nil
}

func (s *Session) Exec(ctx context.Context, rpc string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil {
		return "", s.broken
	}

	type result struct {
		reply *nc.RPCReply
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := s.client.Exec(nc.RawMethod(rpc))
		done <- result{reply: reply, err: err}
	}()

	select {
	case <-ctx.Done():
		s.broken = fmt.Errorf("%w: netconf session abandoned: %w", domain.ErrChannel, ctx.Err())
		_ = s.close()
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			var rpcErr *nc.RPCError
			if errors.As(res.err, &rpcErr) {
				return "", ports.RPCError{
					Type:     rpcErr.Type,
					Tag:      rpcErr.Tag,
					Severity: rpcErr.Severity,
					Path:     rpcErr.Path,
					Message:  rpcErr.Message,
				}
			}
			return "", res.err
		}
		if res.reply == nil {
			return "", nil
		}
		return res.reply.Data, nil
	}
}

func (s *Session) Capabilities() []string {
	if s.client == nil {
		return nil
	}
	return s.client.ServerCapabilities
}

func (s *Session) Close() error {
	return s.close()
}

func (s *Session) close() error {
	s.closeOnce.Do(func() {
		if s.client != nil {
			s.closeErr = s.client.Close()
		}
	})
	return s.closeErr
}
