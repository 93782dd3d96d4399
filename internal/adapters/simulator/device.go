// Package simulator is an in-process device that answers both transports at
// the session level: raw XML RPCs on the structured side and line commands on
// the interactive side. Both read the same configuration, but the interactive
// view can be made to lag behind a structured delete-recreate, and community
// values are tracked the way the device applies them rather than as written.
package simulator

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
)

const Hostname = "sim-csr1"

type Options struct {
	// Candidate advertises the candidate datastore capability.
	Candidate bool
	// StaleReads is how many interactive reads keep showing the previous
	// generation of an object deleted and recreated over the structured channel.
	StaleReads int
	// HangShowAt makes the nth route-map show on the interactive channel block
	// until the caller gives up. Zero disables it.
	HangShowAt int
	// CommunityNewFormat starts the device with ip bgp-community new-format.
	CommunityNewFormat bool
	Logger             zerolog.Logger
}

type SessionStats struct {
	StructuredOpened  int
	StructuredClosed  int
	InteractiveOpened int
	InteractiveClosed int
}

func (s SessionStats) Open() int {
	return s.StructuredOpened - s.StructuredClosed + s.InteractiveOpened - s.InteractiveClosed
}

type staleView struct {
	object    domain.PolicyObject
	remaining int
}

type Device struct {
	mu      sync.Mutex
	opts    Options
	logger  zerolog.Logger
	nextID  int
	stats   SessionStats
	running map[string]domain.PolicyObject

	// applied holds the community values in use. The line channel renders
	// these; the structured channel shows running as written.
	applied   appliedCommunities
	newFormat bool

	candidate          map[string]domain.PolicyObject
	candidateNewFormat bool
	candidateDirty     bool
	locks              map[string]int

	// retired holds objects removed over the structured channel that the
	// interactive view has not caught up with yet.
	retired map[string]domain.PolicyObject
	stale   map[string]*staleView
	shows   int
}

func NewDevice(opts Options) *Device {
	return &Device{
		opts:               opts,
		logger:             opts.Logger.With().Str("device", Hostname).Logger(),
		running:            make(map[string]domain.PolicyObject),
		applied:            make(appliedCommunities),
		newFormat:          opts.CommunityNewFormat,
		candidate:          make(map[string]domain.PolicyObject),
		candidateNewFormat: opts.CommunityNewFormat,
		locks:              make(map[string]int),
		retired:            make(map[string]domain.PolicyObject),
		stale:              make(map[string]*staleView),
	}
}

func (d *Device) Address() string {
	return Hostname
}

// DialStructured opens a NETCONF-like session.
func (d *Device) DialStructured(ctx context.Context) (ports.RPCSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.stats.StructuredOpened++
	d.logger.Debug().Int("session", d.nextID).Msg("structured session open")
	return &RPCSession{device: d, id: d.nextID}, nil
}

// DialInteractive opens a line session already past login and paging setup.
func (d *Device) DialInteractive(ctx context.Context) (ports.LineSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.stats.InteractiveOpened++
	d.logger.Debug().Int("session", d.nextID).Msg("interactive session open")
	return &LineSession{device: d, id: d.nextID}, nil
}

func (d *Device) Stats() SessionStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Running returns the committed object, as the structured channel sees it.
func (d *Device) Running(name string) (domain.PolicyObject, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	object, ok := d.running[name]
	return object.Clone(), ok
}

// Interactive returns the object as the line channel renders it, ignoring any
// lag.
func (d *Device) Interactive(name string) (domain.PolicyObject, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lineObjectLocked(name)
}

func (d *Device) CommunityNewFormat() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newFormat
}

// Seed installs an object as if it had been configured before the run.
func (d *Device) Seed(object domain.PolicyObject) error {
	object, err := canonical(object.Name, object.Clauses)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.running[object.Name] = object
	d.applied.reset(object)
	if !d.candidateDirty {
		d.candidate[object.Name] = object.Clone()
	}
	return nil
}

// commitLocked replaces the running config with next and tracks objects the
// interactive view will lag on.
func (d *Device) commitLocked(next map[string]domain.PolicyObject, newFormat bool) {
	names := make(map[string]struct{}, len(next)+len(d.running))
	for name := range next {
		names[name] = struct{}{}
	}
	for name := range d.running {
		names[name] = struct{}{}
	}

	for name := range names {
		before, hadBefore := d.running[name]
		after, hasAfter := next[name]
		switch {
		case hadBefore && !hasAfter:
			delete(d.stale, name)
			if d.opts.StaleReads > 0 {
				d.retired[name] = d.applied.render(before, d.newFormat)
			}
		case !hadBefore && hasAfter:
			if old, ok := d.retired[name]; ok {
				delete(d.retired, name)
				d.stale[name] = &staleView{object: old, remaining: d.opts.StaleReads}
				d.logger.Debug().Str("object", name).Int("reads", d.opts.StaleReads).Msg("interactive view lagging")
			}
		}

		if hasAfter {
			d.applied.update(before, after, hadBefore)
		} else {
			delete(d.applied, name)
		}
	}

	if newFormat != d.newFormat {
		d.logger.Debug().Bool("new_format", newFormat).Msg("community format changed")
	}
	d.newFormat = newFormat
	d.running = cloneConfig(next)
	if !d.candidateDirty {
		d.candidate = cloneConfig(next)
		d.candidateNewFormat = newFormat
	}
}

// viewLocked returns what the interactive channel shows for name.
func (d *Device) viewLocked(name string) (domain.PolicyObject, bool) {
	if view, ok := d.stale[name]; ok {
		view.remaining--
		if view.remaining <= 0 {
			delete(d.stale, name)
		}
		return view.object.Clone(), true
	}

	delete(d.retired, name)
	return d.lineObjectLocked(name)
}

func (d *Device) lineObjectLocked(name string) (domain.PolicyObject, bool) {
	object, ok := d.running[name]
	if !ok {
		return domain.PolicyObject{}, false
	}
	return d.applied.render(object, d.newFormat), true
}

// applyLineLocked stores an object changed from the interactive channel.
// The interactive view is current after its own edits, and the stored text
// becomes what the line channel prints.
func (d *Device) applyLineLocked(name string, object domain.PolicyObject, present bool) {
	delete(d.stale, name)
	delete(d.retired, name)

	if present {
		d.applied.reset(object)
		d.running[name] = d.applied.render(object, d.newFormat)
	} else {
		delete(d.running, name)
		delete(d.applied, name)
	}
	if !d.candidateDirty {
		d.candidate = cloneConfig(d.running)
	}
}

func (d *Device) setNewFormatLocked(enable bool) {
	d.newFormat = enable
	if !d.candidateDirty {
		d.candidateNewFormat = enable
	}
}

func (d *Device) resetCandidateLocked() {
	d.candidate = cloneConfig(d.running)
	d.candidateNewFormat = d.newFormat
	d.candidateDirty = false
}

func (d *Device) nextShowLocked() bool {
	d.shows++
	return d.opts.HangShowAt > 0 && d.shows == d.opts.HangShowAt
}

func (d *Device) releaseLocked(id int) {
	for datastore, owner := range d.locks {
		if owner != id {
			continue
		}
		delete(d.locks, datastore)
		if datastore == "candidate" && d.candidateDirty {
			d.resetCandidateLocked()
		}
	}
}

func canonical(name string, clauses []domain.Clause) (domain.PolicyObject, error) {
	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return domain.PolicyObject{}, err
	}
	for i, clause := range object.Clauses {
		rules, err := canonicalRules(clause)
		if err != nil {
			return domain.PolicyObject{}, err
		}
		object.Clauses[i].Rules = rules
	}
	return object, nil
}

func cloneConfig(config map[string]domain.PolicyObject) map[string]domain.PolicyObject {
	cloned := make(map[string]domain.PolicyObject, len(config))
	for name, object := range config {
		cloned[name] = object.Clone()
	}
	return cloned
}

func errClosed(channel domain.Channel) error {
	return fmt.Errorf("%s session: %w", channel, net.ErrClosed)
}
