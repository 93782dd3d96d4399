package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

var _ ports.LineSession = (*Session)(nil)

const DefaultPrompt = `^[\w.\-@/:()]+[>#]$`

var (
	DefaultPagingCommands = []string{"terminal length 0", "terminal width 0"}

	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	morePattern = regexp.MustCompile(`\s*-+\s*More\s*-+\s*$`)
)

type SessionOptions struct {
	Prompt         string
	PagingCommands []string
	CommandTimeout time.Duration
}

// Session drives an interactive shell. One command runs at a time and its
// output ends when the prompt reappears on the last line.
type Session struct {
	mu             sync.Mutex
	stdin          io.Writer
	chunks         chan []byte
	readErr        error
	done           chan struct{}
	prompt         *regexp.Regexp
	commandTimeout time.Duration
	broken         error
	closer         func() error
	logger         zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

func Dial(ctx context.Context, address string, config *ssh.ClientConfig, opts SessionOptions, logger zerolog.Logger) (*Session, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial ssh %s: %w", address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else if config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", address, err)
	}
	_ = conn.SetDeadline(time.Time{})
	client := ssh.NewClient(clientConn, chans, reqs)

	shell, err := client.NewSession()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open ssh channel: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := shell.RequestPty("vt100", 0, 511, modes); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("request pty: %w", err)
	}

	stdin, err := shell.StdinPipe()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := shell.StdoutPipe()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := shell.Shell(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("start shell: %w", err)
	}

	closer := func() error {
		return errors.Join(ignoreEOF(shell.Close()), client.Close())
	}

	session, err := NewSession(stdin, stdout, closer, opts, logger)
	if err != nil {
		_ = closer()
		return nil, err
	}
	if err := session.Start(ctx, opts.PagingCommands); err != nil {
		_ = session.Close()
		return nil, err
	}

	return session, nil
}

// NewSession wraps an already started shell. Start must be called before Run.
func NewSession(stdin io.Writer, stdout io.Reader, closer func() error, opts SessionOptions, logger zerolog.Logger) (*Session, error) {
	pattern := opts.Prompt
	if pattern == "" {
		pattern = DefaultPrompt
	}
	prompt, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile prompt pattern: %w", err)
	}

	s := &Session{
		stdin:          stdin,
		chunks:         make(chan []byte, 16),
		done:           make(chan struct{}),
		prompt:         prompt,
		commandTimeout: opts.CommandTimeout,
		closer:         closer,
		logger:         logger.With().Str("channel", string(domain.ChannelInteractive)).Logger(),
	}
	go s.readLoop(stdout)

	return s, nil
}

// Start waits for the first prompt and disables paging.
func (s *Session) Start(ctx context.Context, pagingCommands []string) error {
	if pagingCommands == nil {
		pagingCommands = DefaultPagingCommands
	}

	s.mu.Lock()
	_, err := s.readUntilPrompt(ctx)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("wait for prompt: %w", err)
	}

	for _, command := range pagingCommands {
		if _, err := s.Run(ctx, command); err != nil {
			return fmt.Errorf("disable paging %q: %w", command, err)
		}
	}
	return nil
}

func (s *Session) Run(ctx context.Context, command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil {
		return "", s.broken
	}

	s.logger.Debug().Str("command", command).Msg("send line")
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		s.broken = fmt.Errorf("%w: write command: %w", domain.ErrChannel, err)
		return "", s.broken
	}

	raw, err := s.readUntilPrompt(ctx)
	if err != nil {
		s.broken = fmt.Errorf("%w: line session abandoned: %w", domain.ErrChannel, err)
		return "", err
	}

	return cleanOutput(raw, command, s.prompt), nil
}

func (s *Session) readUntilPrompt(ctx context.Context) (string, error) {
	if _, ok := ctx.Deadline(); !ok && s.commandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.commandTimeout)
		defer cancel()
	}

	var out strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case chunk, ok := <-s.chunks:
			if !ok {
				readErr := s.readErr
				if readErr == nil {
					readErr = io.EOF
				}
				return "", fmt.Errorf("line session closed: %w", readErr)
			}
			out.Write(chunk)
		}

		text := out.String()
		if morePattern.MatchString(stripANSI(lastLine(text))) {
			out.Reset()
			out.WriteString(trimMore(text))
			if _, err := io.WriteString(s.stdin, " "); err != nil {
				return "", fmt.Errorf("page output: %w", err)
			}
			continue
		}
		if s.atPrompt(text) {
			return text, nil
		}
	}
}

func (s *Session) atPrompt(text string) bool {
	last := strings.TrimSpace(stripANSI(lastLine(text)))
	return last != "" && s.prompt.MatchString(last)
}

func (s *Session) readLoop(r io.Reader) {
	defer close(s.chunks)

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr = err
			return
		}
	}
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.closer != nil {
			s.closeErr = s.closer()
		}
	})
	return s.closeErr
}

func cleanOutput(raw, command string, prompt *regexp.Regexp) string {
	text := strings.ReplaceAll(stripANSI(raw), "\r", "")
	text = strings.ReplaceAll(text, "\b", "")

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" && prompt.MatchString(strings.TrimSpace(lines[len(lines)-1])) {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasSuffix(strings.TrimSpace(lines[0]), strings.TrimSpace(command)) {
		lines = lines[1:]
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \n")
}

func stripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

func lastLine(text string) string {
	text = strings.TrimRight(text, "\r")
	if i := strings.LastIndexAny(text, "\r\n"); i >= 0 {
		return text[i+1:]
	}
	return text
}

func trimMore(text string) string {
	i := strings.LastIndexAny(text, "\n")
	if i < 0 {
		return ""
	}
	return text[:i+1]
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
