package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConnection      = errors.New("connection failed")
	ErrChannel         = errors.New("channel fault")
	ErrChannelTimeout  = errors.New("channel timeout")
	ErrCommit          = errors.New("commit failed")
	ErrConfigRejected  = errors.New("config rejected")
	ErrPartialApply    = errors.New("partially applied")
	ErrMalformedOutput = errors.New("malformed output")
	ErrInvalidPolicy   = errors.New("invalid policy object")
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrReportNotFound  = errors.New("report not found")
	ErrSecretNotFound  = errors.New("secret not found")
)

// ChannelError carries the channel and operation a fault happened on. Kind is
// one of the sentinels above and is matched by errors.Is.
type ChannelError struct {
	Channel    Channel
	Op         string
	Kind       error
	Diagnostic string
	Err        error
}

func (e *ChannelError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Channel, e.Op, e.Kind)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ChannelError) Unwrap() []error {
	return compactErrors(e.Kind, e.Err)
}

func NewChannelError(channel Channel, op string, kind error, diagnostic string, err error) *ChannelError {
	return &ChannelError{Channel: channel, Op: op, Kind: kind, Diagnostic: diagnostic, Err: err}
}

// TransportError classifies a transport-level failure. Errors that are
// already classified pass through untouched.
func TransportError(channel Channel, op string, err error) error {
	if err == nil {
		return nil
	}

	var channelErr *ChannelError
	if errors.As(err, &channelErr) {
		return err
	}
	var partialErr *PartialApplyError
	if errors.As(err, &partialErr) {
		return err
	}

	kind := ErrChannel
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrChannelTimeout) {
		kind = ErrChannelTimeout
	}
	return NewChannelError(channel, op, kind, "", err)
}

// PartialApplyError reports a multi-command interactive mutation that stopped
// midway. Observed holds the state re-read after the failure when ReadErr is nil.
type PartialApplyError struct {
	Channel    Channel
	Object     string
	Applied    int
	Total      int
	Command    string
	Diagnostic string
	Cause      error
	Observed   PolicyObject
	Present    bool
	ReadErr    error
}

func (e *PartialApplyError) Error() string {
	msg := fmt.Sprintf("%s configure %s: %v after %d/%d commands at %q", e.Channel, e.Object, ErrPartialApply, e.Applied, e.Total, e.Command)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PartialApplyError) Unwrap() []error {
	return compactErrors(ErrPartialApply, e.Cause)
}

// StepError pins a failure to the scenario step that produced it.
type StepError struct {
	Index   int
	Name    string
	Channel Channel
	Err     error
}

func (e *StepError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("step %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("step %d (%s) on %s channel: %v", e.Index, e.Name, e.Channel, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrConnection, "ConnectionError"},
	{ErrPartialApply, "PartialApplyError"},
	{ErrChannelTimeout, "ChannelTimeout"},
	{ErrCommit, "CommitError"},
	{ErrConfigRejected, "ConfigRejected"},
	{ErrMalformedOutput, "MalformedOutput"},
	{ErrChannel, "ChannelError"},
	{ErrInvalidScenario, "InvalidScenario"},
	{ErrInvalidPolicy, "InvalidPolicy"},
	{context.Canceled, "Canceled"},
}

// ErrorKind names the taxonomy bucket of err.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.name
		}
	}
	return "Error"
}

// ErrorChannel returns the channel an error is attributed to, if any.
func ErrorChannel(err error) Channel {
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Channel != "" {
		return stepErr.Channel
	}
	var channelErr *ChannelError
	if errors.As(err, &channelErr) {
		return channelErr.Channel
	}
	var partialErr *PartialApplyError
	if errors.As(err, &partialErr) {
		return partialErr.Channel
	}
	return ""
}

func compactErrors(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
