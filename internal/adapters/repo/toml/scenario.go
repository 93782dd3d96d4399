package toml

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultStructuredPort  = 830
	DefaultInteractivePort = 22
)

type scenarioFileSchema struct {
	Version  int                `toml:"version"`
	Device   deviceSchema       `toml:"device"`
	Scenario scenarioBodySchema `toml:"scenario"`
}

type deviceSchema struct {
	Address     string        `toml:"address"`
	Structured  channelSchema `toml:"structured"`
	Interactive channelSchema `toml:"interactive"`
}

type channelSchema struct {
	Port            int      `toml:"port,omitempty"`
	Username        string   `toml:"username,omitempty"`
	Password        string   `toml:"password,omitempty"`
	PasswordRef     string   `toml:"password_ref,omitempty"`
	KeyPath         string   `toml:"key_path,omitempty"`
	KnownHosts      string   `toml:"known_hosts,omitempty"`
	InsecureHostKey bool     `toml:"insecure_host_key,omitempty"`
	ConnectTimeout  string   `toml:"connect_timeout,omitempty"`
	Datastore       string   `toml:"datastore,omitempty"`
	Prompt          string   `toml:"prompt,omitempty"`
	Parser          string   `toml:"parser,omitempty"`
	PagingCommands  []string `toml:"paging_commands,omitempty"`
	CommandTimeout  string   `toml:"command_timeout,omitempty"`
}

type scenarioBodySchema struct {
	Name                string       `toml:"name"`
	Object              string       `toml:"object"`
	ConvergenceRetries  int          `toml:"convergence_retries"`
	ObservationInterval string       `toml:"observation_interval,omitempty"`
	ObserveTimeout      string       `toml:"observe_timeout,omitempty"`
	MutationTimeout     string       `toml:"mutation_timeout,omitempty"`
	StepRetries         int          `toml:"step_retries,omitempty"`
	RetryInterval       string       `toml:"retry_interval,omitempty"`
	Cleanup             bool         `toml:"cleanup"`
	Steps               []stepSchema `toml:"steps"`
}

type stepSchema struct {
	Name       string            `toml:"name"`
	Observe    []string          `toml:"observe,omitempty"`
	Operations []operationSchema `toml:"operations,omitempty"`
}

type operationSchema struct {
	Channel string         `toml:"channel"`
	Kind    string         `toml:"kind"`
	Setting string         `toml:"setting,omitempty"`
	Enable  bool           `toml:"enable,omitempty"`
	Clauses []clauseSchema `toml:"clauses,omitempty"`
}

// ChannelSettings configures one channel of the session pair.
type ChannelSettings struct {
	Port            int
	Username        string
	Password        string
	PasswordRef     string
	KeyPath         string
	KnownHosts      string
	InsecureHostKey bool
	ConnectTimeout  time.Duration
	Datastore       string
	Prompt          string
	Parser          string
	PagingCommands  []string
	CommandTimeout  time.Duration
}

type DeviceSettings struct {
	Address     string
	Structured  ChannelSettings
	Interactive ChannelSettings
}

// RunSettings are the runner bounds that live next to the scenario.
type RunSettings struct {
	ObserveTimeout  time.Duration
	MutationTimeout time.Duration
	StepRetries     int
	RetryInterval   time.Duration
}

// ScenarioFile is a decoded scenario definition.
type ScenarioFile struct {
	Device   DeviceSettings
	Scenario domain.Scenario
	Run      RunSettings
}

// LoadScenarioFile reads and validates a scenario definition. Unknown keys
// are rejected.
func LoadScenarioFile(path string) (ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioFile{}, fmt.Errorf("read scenario file: %w", err)
	}

	file, err := DecodeScenarioFile(data)
	if err != nil {
		return ScenarioFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

func DecodeScenarioFile(data []byte) (ScenarioFile, error) {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var schema scenarioFileSchema
	if err := decoder.Decode(&schema); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return ScenarioFile{}, fmt.Errorf("%w: unknown keys: %s", domain.ErrInvalidScenario, strings.Join(unknownKeys(strictErr), ", "))
		}
		return ScenarioFile{}, fmt.Errorf("%w: decode scenario file: %w", domain.ErrInvalidScenario, err)
	}
	if schema.Version > currentSchemaVersion {
		return ScenarioFile{}, fmt.Errorf("%w: unsupported scenario schema version %d (current %d)", domain.ErrInvalidScenario, schema.Version, currentSchemaVersion)
	}

	device, err := schema.Device.settings()
	if err != nil {
		return ScenarioFile{}, fmt.Errorf("%w: device: %w", domain.ErrInvalidScenario, err)
	}
	scenario, run, err := schema.Scenario.scenario()
	if err != nil {
		return ScenarioFile{}, err
	}
	if err := scenario.Validate(); err != nil {
		return ScenarioFile{}, err
	}

	return ScenarioFile{Device: device, Scenario: scenario, Run: run}, nil
}

// EncodeScenarioFile renders a scenario definition in the same schema
// LoadScenarioFile reads.
func EncodeScenarioFile(file ScenarioFile) ([]byte, error) {
	schema := scenarioFileSchema{
		Version: currentSchemaVersion,
		Device: deviceSchema{
			Address:     file.Device.Address,
			Structured:  toChannelSchema(file.Device.Structured),
			Interactive: toChannelSchema(file.Device.Interactive),
		},
		Scenario: scenarioBodySchema{
			Name:                file.Scenario.Name,
			Object:              file.Scenario.Object,
			ConvergenceRetries:  file.Scenario.ConvergenceRetries,
			ObservationInterval: formatDuration(file.Scenario.ObservationInterval),
			ObserveTimeout:      formatDuration(file.Run.ObserveTimeout),
			MutationTimeout:     formatDuration(file.Run.MutationTimeout),
			StepRetries:         file.Run.StepRetries,
			RetryInterval:       formatDuration(file.Run.RetryInterval),
			Cleanup:             file.Scenario.Cleanup,
		},
	}

	for _, step := range file.Scenario.Steps {
		encoded := stepSchema{Name: step.Name}
		for _, channel := range step.Observe {
			encoded.Observe = append(encoded.Observe, string(channel))
		}
		for _, op := range step.Operations {
			encoded.Operations = append(encoded.Operations, operationSchema{
				Channel: string(op.Channel),
				Kind:    string(op.Kind),
				Setting: string(op.Setting),
				Enable:  op.Enable,
				Clauses: toClauseSchemas(op.Clauses),
			})
		}
		schema.Scenario.Steps = append(schema.Scenario.Steps, encoded)
	}

	data, err := toml.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode scenario file: %w", err)
	}
	return data, nil
}

// ExampleScenarioFile wraps scenario with the device settings of a lab
// device at address.
func ExampleScenarioFile(address string, scenario domain.Scenario) ScenarioFile {
	return ScenarioFile{
		Device: DeviceSettings{
			Address: address,
			Structured: ChannelSettings{
				Port:           DefaultStructuredPort,
				Username:       "admin",
				PasswordRef:    "pass://ncdrift/" + address,
				ConnectTimeout: 10 * time.Second,
				Datastore:      "auto",
			},
			Interactive: ChannelSettings{
				Port:           DefaultInteractivePort,
				Username:       "admin",
				PasswordRef:    "pass://ncdrift/" + address,
				ConnectTimeout: 10 * time.Second,
				Parser:         "running-config",
				CommandTimeout: 30 * time.Second,
			},
		},
		Scenario: scenario,
		Run: RunSettings{
			ObserveTimeout:  30 * time.Second,
			MutationTimeout: 60 * time.Second,
		},
	}
}

func (d deviceSchema) settings() (DeviceSettings, error) {
	if strings.TrimSpace(d.Address) == "" {
		return DeviceSettings{}, errors.New("address is required")
	}

	structured, err := d.Structured.settings(DefaultStructuredPort)
	if err != nil {
		return DeviceSettings{}, fmt.Errorf("structured: %w", err)
	}
	interactive, err := d.Interactive.settings(DefaultInteractivePort)
	if err != nil {
		return DeviceSettings{}, fmt.Errorf("interactive: %w", err)
	}

	return DeviceSettings{Address: strings.TrimSpace(d.Address), Structured: structured, Interactive: interactive}, nil
}

func (c channelSchema) settings(defaultPort int) (ChannelSettings, error) {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	if port < 1 || port > 65535 {
		return ChannelSettings{}, fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Password != "" && c.PasswordRef != "" {
		return ChannelSettings{}, errors.New("password and password_ref are mutually exclusive")
	}

	connectTimeout, err := parseDuration("connect_timeout", c.ConnectTimeout)
	if err != nil {
		return ChannelSettings{}, err
	}
	commandTimeout, err := parseDuration("command_timeout", c.CommandTimeout)
	if err != nil {
		return ChannelSettings{}, err
	}

	return ChannelSettings{
		Port:            port,
		Username:        c.Username,
		Password:        c.Password,
		PasswordRef:     c.PasswordRef,
		KeyPath:         c.KeyPath,
		KnownHosts:      c.KnownHosts,
		InsecureHostKey: c.InsecureHostKey,
		ConnectTimeout:  connectTimeout,
		Datastore:       c.Datastore,
		Prompt:          c.Prompt,
		Parser:          c.Parser,
		PagingCommands:  c.PagingCommands,
		CommandTimeout:  commandTimeout,
	}, nil
}

func (s scenarioBodySchema) scenario() (domain.Scenario, RunSettings, error) {
	invalid := func(err error) (domain.Scenario, RunSettings, error) {
		return domain.Scenario{}, RunSettings{}, fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}

	interval, err := parseDuration("observation_interval", s.ObservationInterval)
	if err != nil {
		return invalid(err)
	}
	observeTimeout, err := parseDuration("observe_timeout", s.ObserveTimeout)
	if err != nil {
		return invalid(err)
	}
	mutationTimeout, err := parseDuration("mutation_timeout", s.MutationTimeout)
	if err != nil {
		return invalid(err)
	}
	retryInterval, err := parseDuration("retry_interval", s.RetryInterval)
	if err != nil {
		return invalid(err)
	}
	if s.StepRetries < 0 {
		return invalid(errors.New("step_retries must not be negative"))
	}

	scenario := domain.Scenario{
		Name:                s.Name,
		Object:              s.Object,
		ConvergenceRetries:  s.ConvergenceRetries,
		ObservationInterval: interval,
		Cleanup:             s.Cleanup,
	}

	for i, step := range s.Steps {
		decoded := domain.ScenarioStep{Name: step.Name}
		for _, raw := range step.Observe {
			channel, err := domain.ParseChannel(raw)
			if err != nil {
				return invalid(fmt.Errorf("step %d: %w", i+1, err))
			}
			decoded.Observe = append(decoded.Observe, channel)
		}
		for _, op := range step.Operations {
			channel, err := domain.ParseChannel(op.Channel)
			if err != nil {
				return invalid(fmt.Errorf("step %d: %w", i+1, err))
			}
			decoded.Operations = append(decoded.Operations, domain.Operation{
				Channel: channel,
				Kind:    domain.OperationKind(op.Kind),
				Clauses: fromClauseSchemas(op.Clauses),
				Setting: domain.Setting(op.Setting),
				Enable:  op.Enable,
			})
		}
		scenario.Steps = append(scenario.Steps, decoded)
	}

	run := RunSettings{
		ObserveTimeout:  observeTimeout,
		MutationTimeout: mutationTimeout,
		StepRetries:     s.StepRetries,
		RetryInterval:   retryInterval,
	}
	return scenario, run, nil
}

func unknownKeys(err *toml.StrictMissingError) []string {
	keys := make([]string, 0, len(err.Errors))
	for _, decodeErr := range err.Errors {
		keys = append(keys, strings.Join(decodeErr.Key(), "."))
	}
	return keys
}

func toChannelSchema(c ChannelSettings) channelSchema {
	return channelSchema{
		Port:            c.Port,
		Username:        c.Username,
		Password:        c.Password,
		PasswordRef:     c.PasswordRef,
		KeyPath:         c.KeyPath,
		KnownHosts:      c.KnownHosts,
		InsecureHostKey: c.InsecureHostKey,
		ConnectTimeout:  formatDuration(c.ConnectTimeout),
		Datastore:       c.Datastore,
		Prompt:          c.Prompt,
		Parser:          c.Parser,
		PagingCommands:  c.PagingCommands,
		CommandTimeout:  formatDuration(c.CommandTimeout),
	}
}

func parseDuration(key, raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return value, nil
}

func formatDuration(value time.Duration) string {
	if value == 0 {
		return ""
	}
	return value.String()
}
