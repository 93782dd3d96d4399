package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	reportrender "github.com/bnema/ncdrift/internal/adapters/render/report"
	tomlrepo "github.com/bnema/ncdrift/internal/adapters/repo/toml"
	chainstore "github.com/bnema/ncdrift/internal/adapters/secrets/chain"
	"github.com/bnema/ncdrift/internal/domain"
	"github.com/bnema/ncdrift/internal/logging"
	"github.com/bnema/ncdrift/internal/ports"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "NCDRIFT"
	scenarioPathKey = "scenario.path"
	logLevelKey     = "log.level"
	secretsDir      = "secrets"
)

type app struct {
	config         *viper.Viper
	reports        ports.ReportRepository
	credentials    ports.CredentialStore
	reportRenderer func(domain.Report, reportrender.RenderOptions) (string, error)
	historyRender  func([]domain.Report) (string, error)
	clock          ports.Clock
	isTerminal     func(io.Writer) bool
	logger         zerolog.Logger
	flags          globalFlags
}

type globalFlags struct {
	scenarioPath string
	logLevel     string
}

func wireApp() (*app, error) {
	config := viper.New()
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	repo, err := tomlrepo.NewRepository(config)
	if err != nil {
		return nil, fmt.Errorf("wire report repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	credentials, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, tomlrepo.ConfigDir, secretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire credential store chain: %w", err)
	}

	return &app{
		config:         config,
		reports:        repo,
		credentials:    credentials,
		reportRenderer: reportrender.Render,
		historyRender:  reportrender.RenderHistory,
		clock:          ports.SystemClock{},
		isTerminal:     isTerminal,
		logger:         zerolog.Nop(),
	}, nil
}

func (a *app) initLogger(w io.Writer) error {
	level := a.flags.logLevel
	if level == "" {
		level = a.config.GetString(logLevelKey)
	}

	logger, err := logging.New(w, logging.Options{Level: level})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// scenarioPath prefers --config over scenario.path from the config file or
// NCDRIFT_SCENARIO_PATH.
func (a *app) scenarioPath() (string, error) {
	path := a.flags.scenarioPath
	if path == "" {
		path = a.config.GetString(scenarioPathKey)
	}
	return expandHome(path)
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, rest), nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
