package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName        = "config"
	configType        = "toml"
	ReportsPathKey    = "reports.path"
	reportsFileMode   = 0o600
	reportsDirMode    = 0o700
	ConfigDir         = ".ncdrift"
	reportsConfigFile = "reports.toml"
	tempFilePattern   = ".reports-*.toml.tmp"
)

// Repository archives run reports in a single TOML file.
type Repository struct {
	reportsPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ReportRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, ConfigDir, reportsConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, ConfigDir))
	cfg.SetDefault(ReportsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	reportsPath := cfg.GetString(ReportsPathKey)
	if reportsPath == "" {
		return nil, errors.New("reports path is empty")
	}
	reportsPath, err = normalizePath(reportsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{reportsPath: reportsPath, mu: lockForPath(reportsPath)}, nil
}

func (r *Repository) Path() string {
	return r.reportsPath
}

// Save inserts the report or replaces the one with the same ID.
func (r *Repository) Save(ctx context.Context, report domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(report)
	updated := false
	for i := range file.Reports {
		if file.Reports[i].ID == encoded.ID {
			file.Reports[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Reports = append(file.Reports, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// GetByID accepts a full run ID or an unambiguous prefix of one.
func (r *Repository) GetByID(ctx context.Context, id domain.RunID) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Report{}, err
	}

	var matches []reportSchema
	for _, entry := range file.Reports {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
		if id != "" && strings.HasPrefix(entry.ID, string(id)) {
			matches = append(matches, entry)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Report{}, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	case 1:
		return fromSchema(matches[0]), nil
	default:
		return domain.Report{}, fmt.Errorf("run id prefix %q matches %d reports", id, len(matches))
	}
}

// List returns every archived report, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(file.Reports))
	for _, entry := range file.Reports {
		reports = append(reports, fromSchema(entry))
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})

	return reports, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.reportsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read reports file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode reports file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, rest)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve reports path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.reportsPath), reportsDirMode); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode reports file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.reportsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp reports file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp reports file: %w", err)
	}

	if err := tempFile.Chmod(reportsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp reports file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp reports file: %w", err)
	}

	if err := os.Rename(tempName, r.reportsPath); err != nil {
		return fmt.Errorf("replace reports file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(report domain.Report) reportSchema {
	encoded := reportSchema{
		ID:             string(report.ID),
		Scenario:       report.Scenario,
		Device:         report.Device,
		Object:         report.Object,
		State:          string(report.State),
		BugReproduced:  report.BugReproduced,
		StartedAt:      formatTime(report.StartedAt),
		FinishedAt:     formatTime(report.FinishedAt),
		TeardownErrors: report.TeardownErrors,
	}
	if report.Failure != nil {
		encoded.Failure = &failureSchema{
			StepIndex: report.Failure.StepIndex,
			StepName:  report.Failure.StepName,
			Channel:   string(report.Failure.Channel),
			Kind:      report.Failure.Kind,
			Message:   report.Failure.Message,
		}
	}

	for _, record := range report.Timeline {
		encoded.Timeline = append(encoded.Timeline, recordSchema{
			StepIndex:  record.Step.Index,
			StepName:   record.Step.Name,
			Attempt:    record.Step.Attempt,
			Operation:  record.Step.Operation,
			Consistent: record.Consistent,
			RecordedAt: formatTime(record.RecordedAt),
			Expected: expectationSchema{
				Present: record.Expected.Present,
				Clauses: toClauseSchemas(record.Expected.Object.Clauses),
			},
			Left:  toObservationSchema(record.Left),
			Right: toObservationSchema(record.Right),
		})
	}

	return encoded
}

func fromSchema(entry reportSchema) domain.Report {
	report := domain.Report{
		ID:             domain.RunID(entry.ID),
		Scenario:       entry.Scenario,
		Device:         entry.Device,
		Object:         entry.Object,
		State:          domain.RunState(entry.State),
		BugReproduced:  entry.BugReproduced,
		StartedAt:      parseTime(entry.StartedAt),
		FinishedAt:     parseTime(entry.FinishedAt),
		TeardownErrors: entry.TeardownErrors,
	}
	if entry.Failure != nil {
		report.Failure = &domain.Failure{
			StepIndex: entry.Failure.StepIndex,
			StepName:  entry.Failure.StepName,
			Channel:   domain.Channel(entry.Failure.Channel),
			Kind:      entry.Failure.Kind,
			Message:   entry.Failure.Message,
		}
	}

	// The diff is recomputed from both observations.
	for _, record := range entry.Timeline {
		expected := domain.Expectation{Present: record.Expected.Present}
		if expected.Present {
			expected.Object = domain.NewPolicyObject(entry.Object, fromClauseSchemas(record.Expected.Clauses))
		}
		report.Timeline = append(report.Timeline, domain.NewDivergenceRecord(
			domain.StepRef{
				Index:     record.StepIndex,
				Name:      record.StepName,
				Attempt:   record.Attempt,
				Operation: record.Operation,
			},
			expected,
			fromObservationSchema(entry.Object, record.Left),
			fromObservationSchema(entry.Object, record.Right),
			parseTime(record.RecordedAt),
		))
	}

	return report
}

func toObservationSchema(observation domain.ChannelObservation) observationSchema {
	return observationSchema{
		Channel:    string(observation.Channel),
		Cycle:      observation.Cycle,
		Present:    observation.Present,
		ObservedAt: formatTime(observation.ObservedAt),
		Clauses:    toClauseSchemas(observation.Object.Clauses),
	}
}

func fromObservationSchema(name string, observation observationSchema) domain.ChannelObservation {
	return domain.NewObservation(
		domain.Channel(observation.Channel),
		observation.Cycle,
		name,
		domain.PolicyObject{Name: name, Clauses: fromClauseSchemas(observation.Clauses)},
		observation.Present,
		parseTime(observation.ObservedAt),
	)
}

func toClauseSchemas(clauses []domain.Clause) []clauseSchema {
	if len(clauses) == 0 {
		return nil
	}

	encoded := make([]clauseSchema, 0, len(clauses))
	for _, clause := range clauses {
		encoded = append(encoded, clauseSchema{
			Seq:    clause.Seq,
			Action: string(clause.Action),
			Rules:  clause.Rules,
		})
	}
	return encoded
}

func fromClauseSchemas(encoded []clauseSchema) []domain.Clause {
	if len(encoded) == 0 {
		return nil
	}

	clauses := make([]domain.Clause, 0, len(encoded))
	for _, clause := range encoded {
		clauses = append(clauses, domain.Clause{
			Seq:    clause.Seq,
			Action: domain.Action(clause.Action),
			Rules:  clause.Rules,
		})
	}
	return clauses
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
