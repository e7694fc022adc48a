package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/tokenlife/internal/cliconfig"
	"github.com/bft-labs/tokenlife/pkg/log"
	"github.com/bft-labs/tokenlife/pkg/snapshot"
	"github.com/bft-labs/tokenlife/pkg/token"
)

const longHelp = `
Inspect and drive the lifecycle of a client token.

The token moves between CLEARED, NEEDED and RECEIVED in response to three
signals: TOKEN_CLEARED, TOKEN_NEEDED and TOKEN_RECEIVED. The current state
is kept in a snapshot file so other processes can follow it with "watch".
`

var exampleUsage = strings.TrimSpace(`
  tokenlife apply TOKEN_NEEDED
  tokenlife apply TOKEN_RECEIVED --token "$ACCESS_TOKEN"
  tokenlife replay actions.jsonl
  tokenlife watch --state-dir /run/myapp
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the resolved configuration shared by all subcommands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string

	out    io.Writer
	errOut io.Writer

	zl     zerolog.Logger
	logger log.Logger
	repo   *snapshot.FileRepository
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{
		cfg:    cliconfig.DefaultConfig(),
		out:    out,
		errOut: errOut,
	}
	a.zl = cliconfig.NewLogger(errOut, a.cfg)

	root := &cobra.Command{
		Use:           "tokenlife",
		Short:         "Inspect and drive the lifecycle of a client token",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s (signals %s) %s/%s", getVersion(), token.Version, runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.tokenlife/config.toml)")
	pf.StringVar(&a.cfg.StateDir, "state-dir", a.cfg.StateDir, "directory holding the token snapshot (default: $HOME/.tokenlife)")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format (console, json)")
	pf.BoolVar(&a.cfg.ShowToken, "show-token", a.cfg.ShowToken, "print token values instead of masking them")
	pf.DurationVar(&a.cfg.WatchDebounce, "watch-debounce", a.cfg.WatchDebounce, "delay after a snapshot write before reloading it")

	root.AddCommand(
		newSignalsCmd(a),
		newStatusCmd(a),
		newApplyCmd(a),
		newClearCmd(a),
		newReplayCmd(a),
		newWatchCmd(a),
	)
	return root, a
}

// loadConfig resolves defaults, then the config file, then TOKENLIFE_*
// environment variables, then explicitly set flags.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	explicit := cfgFile != ""
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && (explicit || cliconfig.FileExists(cfgFile)) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.zl = cliconfig.NewLogger(a.errOut, a.cfg)
	a.logger = log.NewZerolog(a.zl)
	a.repo = snapshot.NewFileRepository(a.cfg.StateDir)

	a.zl.Debug().
		Str("state_dir", a.cfg.StateDir).
		Str("log_level", a.cfg.LogLevel).
		Bool("show_token", a.cfg.ShowToken).
		Msg("configuration")
	return nil
}

func main() {
	root, a := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		a.zl.Error().Err(err).Msg("tokenlife")
		os.Exit(1)
	}
}
