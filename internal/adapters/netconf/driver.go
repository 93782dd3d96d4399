package netconf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/rs/zerolog"
)

var _ ports.StructuredDriver = (*Driver)(nil)

type Datastore string

const (
	DatastoreAuto      Datastore = "auto"
	DatastoreCandidate Datastore = "candidate"
	DatastoreRunning   Datastore = "running"
)

func ParseDatastore(raw string) (Datastore, error) {
	switch Datastore(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DatastoreAuto:
		return DatastoreAuto, nil
	case DatastoreCandidate:
		return DatastoreCandidate, nil
	case DatastoreRunning:
		return DatastoreRunning, nil
	default:
		return "", fmt.Errorf("unsupported datastore %q", raw)
	}
}

const defaultUnlockTimeout = 10 * time.Second

type Options struct {
	Datastore     Datastore
	UnlockTimeout time.Duration
}

// Driver is the structured config driver. Every mutation runs
// lock -> edit-config -> commit -> unlock and nothing is retried here.
type Driver struct {
	session       ports.RPCSession
	target        Datastore
	unlockTimeout time.Duration
	logger        zerolog.Logger
}

func NewDriver(session ports.RPCSession, opts Options, logger zerolog.Logger) *Driver {
	target := opts.Datastore
	if target == "" || target == DatastoreAuto {
		target = DatastoreRunning
		for _, capability := range session.Capabilities() {
			if strings.HasPrefix(capability, CandidateCapability) {
				target = DatastoreCandidate
				break
			}
		}
	}

	unlockTimeout := opts.UnlockTimeout
	if unlockTimeout <= 0 {
		unlockTimeout = defaultUnlockTimeout
	}

	return &Driver{
		session:       session,
		target:        target,
		unlockTimeout: unlockTimeout,
		logger:        logger.With().Str("channel", string(domain.ChannelStructured)).Logger(),
	}
}

func (d *Driver) Target() Datastore {
	return d.target
}

// Delete removes the route-map. Removing an absent route-map succeeds.
func (d *Driver) Delete(ctx context.Context, name string) error {
	native := Native{RouteMaps: []RouteMap{{Operation: "remove", Name: name}}}
	return d.mutate(ctx, "delete", native, true)
}

// CreateOrReplace sends every clause in one edit-config that replaces the
// whole route-map.
func (d *Driver) CreateOrReplace(ctx context.Context, name string, clauses []domain.Clause) error {
	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return err
	}

	routeMap, err := EncodeRouteMap(name, "replace", object.Clauses)
	if err != nil {
		return domain.NewChannelError(domain.ChannelStructured, "encode", domain.ErrConfigRejected, err.Error(), nil)
	}

	return d.mutate(ctx, "create-or-replace", Native{RouteMaps: []RouteMap{routeMap}}, false)
}

// Merge overlays clauses onto the existing route-map. Clauses and rules
// already present are kept.
func (d *Driver) Merge(ctx context.Context, name string, clauses []domain.Clause) error {
	object := domain.NewPolicyObject(name, clauses)
	if err := object.Validate(); err != nil {
		return err
	}

	routeMap, err := EncodeRouteMap(name, "merge", object.Clauses)
	if err != nil {
		return domain.NewChannelError(domain.ChannelStructured, "encode", domain.ErrConfigRejected, err.Error(), nil)
	}

	return d.mutate(ctx, "merge", Native{RouteMaps: []RouteMap{routeMap}}, false)
}

// Remove deletes whole clauses, or community values inside a clause.
func (d *Driver) Remove(ctx context.Context, name string, clauses []domain.Clause) error {
	routeMap, err := EncodeRemoval(name, clauses)
	if err != nil {
		return domain.NewChannelError(domain.ChannelStructured, "encode", domain.ErrConfigRejected, err.Error(), nil)
	}

	return d.mutate(ctx, "remove", Native{RouteMaps: []RouteMap{routeMap}}, false)
}

// ApplySetting switches a device-wide setting. Disabling an unset setting
// succeeds.
func (d *Driver) ApplySetting(ctx context.Context, setting domain.Setting, enable bool) error {
	native, err := EncodeSetting(setting, enable)
	if err != nil {
		return domain.NewChannelError(domain.ChannelStructured, "encode", domain.ErrConfigRejected, err.Error(), nil)
	}

	return d.mutate(ctx, "setting", native, true)
}

func (d *Driver) Read(ctx context.Context, name string) (domain.PolicyObject, bool, error) {
	body, err := d.exec(ctx, "get-config", getConfigRPC(name))
	if err != nil {
		return domain.PolicyObject{}, false, d.classify("get-config", domain.ErrChannel, err)
	}

	object, present, err := DecodeData(body, name)
	if err != nil {
		return domain.PolicyObject{}, false, domain.NewChannelError(domain.ChannelStructured, "get-config", domain.ErrMalformedOutput, "", err)
	}
	return object, present, nil
}

func (d *Driver) mutate(ctx context.Context, op string, native Native, tolerateMissing bool) (err error) {
	config, err := MarshalNative(native)
	if err != nil {
		return err
	}

	if _, err := d.exec(ctx, "lock", targetRPC("lock", d.target)); err != nil {
		return d.classify("lock", domain.ErrConfigRejected, err)
	}
	defer func() {
		if unlockErr := d.unlock(ctx); unlockErr != nil {
			err = errors.Join(err, unlockErr)
		}
	}()

	if _, err := d.exec(ctx, "edit-config", editConfigRPC(d.target, config)); err != nil {
		if tolerateMissing && isDataMissing(err) {
			d.logger.Debug().Str("op", op).Msg("already absent")
			return nil
		}
		return errors.Join(d.classify(op, domain.ErrConfigRejected, err), d.discard(ctx))
	}

	if d.target != DatastoreCandidate {
		return nil
	}

	if _, err := d.exec(ctx, "commit", "<commit/>"); err != nil {
		return errors.Join(d.classify("commit", domain.ErrCommit, err), d.discard(ctx))
	}

	return nil
}

func (d *Driver) unlock(ctx context.Context) error {
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.unlockTimeout)
	defer cancel()

	if _, err := d.exec(unlockCtx, "unlock", targetRPC("unlock", d.target)); err != nil {
		return fmt.Errorf("unlock %s: %w", d.target, d.classify("unlock", domain.ErrChannel, err))
	}
	return nil
}

func (d *Driver) discard(ctx context.Context) error {
	if d.target != DatastoreCandidate {
		return nil
	}

	discardCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.unlockTimeout)
	defer cancel()

	if _, err := d.exec(discardCtx, "discard-changes", "<discard-changes/>"); err != nil {
		return fmt.Errorf("discard changes: %w", d.classify("discard-changes", domain.ErrChannel, err))
	}
	return nil
}

func (d *Driver) exec(ctx context.Context, op, rpc string) (string, error) {
	d.logger.Debug().Str("rpc", op).Str("datastore", string(d.target)).Msg("netconf rpc")
	return d.session.Exec(ctx, rpc)
}

func (d *Driver) classify(op string, kind error, err error) error {
	var rpcErr ports.RPCError
	if errors.As(err, &rpcErr) {
		diagnostic := rpcErr.Message
		if rpcErr.Tag != "" {
			diagnostic = strings.TrimSpace(rpcErr.Tag + ": " + rpcErr.Message)
		}
		return domain.NewChannelError(domain.ChannelStructured, op, kind, diagnostic, nil)
	}
	return domain.TransportError(domain.ChannelStructured, op, err)
}

func isDataMissing(err error) bool {
	var rpcErr ports.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Tag == "data-missing"
}

func targetRPC(op string, target Datastore) string {
	return fmt.Sprintf("<%s><target><%s/></target></%s>", op, target, op)
}

func editConfigRPC(target Datastore, config string) string {
	return fmt.Sprintf("<edit-config><target><%s/></target><config>%s</config></edit-config>", target, config)
}

func getConfigRPC(name string) string {
	return fmt.Sprintf(
		`<get-config><source><running/></source><filter type="subtree"><native xmlns="%s"><route-map><name>%s</name></route-map></native></filter></get-config>`,
		NativeNamespace, escape(name),
	)
}
