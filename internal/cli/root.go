// Package cli implements the propedit command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/propedit/internal/content"
	"github.com/mesh-intelligence/propedit/internal/paths"
	"github.com/mesh-intelligence/propedit/internal/sqlite"
	"github.com/mesh-intelligence/propedit/pkg/convert"
	"github.com/mesh-intelligence/propedit/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// userErrors are the sentinels that mean the input was wrong rather than
// the system.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidName,
	types.ErrDuplicateName,
	types.ErrInvalidFilter,
	types.ErrTypeMismatch,
	types.ErrInvalidStorageKind,
	errConversionFailed,
	errUsage,
}

var (
	errConversionFailed = errors.New("conversion failed")
	errUsage            = errors.New("usage")
)

// app carries the global flags and the state PersistentPreRunE builds.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	config *viper.Viper
	logger *zap.Logger
}

// NewRootCmd creates the top-level "propedit" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "propedit",
		Short: "Convert and store typed content property values",
		Long: "propedit converts editor input to typed stored values by data type,\n" +
			"stores them per language and segment, and exports them as XML.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: .propedit-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newDataTypeCmd(a))
	root.AddCommand(newLanguageCmd(a))
	root.AddCommand(newValueCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newConvertCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "propedit:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error to exitUserError or exitSysError.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// setup loads config.yaml and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	a.config, err = loadConfig(configDir)
	if err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = a.config.GetString(cfgKeyLogLevel)
	}
	a.logger, err = newLogger(level)
	return err
}

// converter returns a Converter wired to the app logger and, when given,
// a language lookup.
func (a *app) converter(languages types.LanguageLookup) *convert.Converter {
	return convert.New(convert.WithLogger(a.logger), convert.WithLanguages(languages))
}

// attach opens the backend on the resolved data directory. The returned
// func detaches it.
func (a *app) attach() (*sqlite.Backend, *content.Service, func(), error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	cfg := types.Config{Backend: a.config.GetString(cfgKeyBackend), DataDir: dataDir}
	if err := backend.Attach(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("attach backend: %w", err)
	}
	a.logger.Debug("attached backend", zap.String("data_dir", dataDir))

	svc := content.NewService(backend, a.converter(backend), a.logger)
	detach := func() {
		if err := backend.Detach(); err != nil {
			a.logger.Warn("detach backend", zap.Error(err))
		}
	}
	return backend, svc, detach, nil
}

// table is a small wrapper for GetTable on an attached backend.
func table(b *sqlite.Backend, name string) (types.Table, error) {
	tbl, err := b.GetTable(name)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", name, err)
	}
	return tbl, nil
}

// out returns the command's stdout writer.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
