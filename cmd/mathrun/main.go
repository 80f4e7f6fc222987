// Package main provides the CLI entrypoint for mathrun.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mathrun/internal/config"
	"github.com/verte-zerg/mathrun/internal/generator"
	"github.com/verte-zerg/mathrun/internal/model"
	"github.com/verte-zerg/mathrun/internal/session"
	"github.com/verte-zerg/mathrun/internal/store"
	"github.com/verte-zerg/mathrun/internal/tui"
)

const (
	defaultOps         = "+,-"
	defaultTime        = 3.0
	defaultDigits      = 2
	defaultFeedbackMs  = 400
	defaultSampleCount = 10
	defaultLogLevel    = "info"
)

var (
	practiceOps        string
	practiceTime       float64
	practiceDigits     int
	practiceFeedbackMs int
	practiceStart      bool

	logFile  string
	logLevel string

	sampleCount int
	sampleSeed  int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathrun",
		Short:         "Timed mental arithmetic practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&practiceOps, "ops", defaultOps, "operations to practice, comma separated (+,-,*,/)")
	flags.Float64Var(&practiceTime, "time", defaultTime, "seconds per question")
	flags.IntVar(&practiceDigits, "digits", defaultDigits, "digits per operand (1-9)")
	flags.IntVar(&practiceFeedbackMs, "feedback-ms", defaultFeedbackMs, "pause after each answer in milliseconds")
	flags.StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	flags.Lookup("log-file").NoOptDefVal = config.DefaultLogPath()
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&practiceStart, "start", false, "skip the setup form")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSampleCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "start", &practiceStart, fileCfg.Practice.Start)

	cfg := practiceConfig()
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use `mathrun sample` for non-interactive output")
	}

	logger, closeLog, err := newLogger(logFile, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		return fmt.Errorf("failed to open turn log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close turn log: %v\n", cerr)
		}
	}()

	ctrl := session.New(generator.New(),
		session.WithRecorder(st),
		session.WithLogger(logger),
		session.WithFeedbackPause(cfg.FeedbackPause()),
	)
	defer ctrl.End()

	m := tui.NewModel(ctrl, st, logger, cfg, practiceStart)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	created, err := config.EnsureConfig(path)
	if err != nil {
		return err
	}
	if created {
		logErrf("Created %s\n", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print generated questions with answers",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVar(&sampleCount, "count", defaultSampleCount, "number of questions")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed for a reproducible list")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	if sampleCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	settings, err := practiceConfig().Settings()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	gen := generator.New()
	if cmd.Flags().Changed("seed") {
		gen = generator.NewWithSeed(sampleSeed)
	}
	return writeSample(cmd.OutOrStdout(), gen, settings, sampleCount)
}

func writeSample(w io.Writer, source session.QuestionSource, settings model.Settings, count int) error {
	for i := 0; i < count; i++ {
		q := source.Generate(settings)
		if _, err := fmt.Fprintf(w, "%s = %d\n", q, q.Answer); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// loadFileConfig merges the config file into every flag the user did not set.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyListConfig(cmd, "ops", &practiceOps, fileCfg.Practice.Operations)
	applyFloatConfig(cmd, "time", &practiceTime, fileCfg.Practice.TimeSeconds)
	applyIntConfig(cmd, "digits", &practiceDigits, fileCfg.Practice.Digits)
	applyIntConfig(cmd, "feedback-ms", &practiceFeedbackMs, fileCfg.Practice.FeedbackPauseMs)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

func practiceConfig() model.Config {
	return model.Config{
		Operations:      practiceOps,
		TimeSeconds:     practiceTime,
		Digits:          practiceDigits,
		FeedbackPauseMs: practiceFeedbackMs,
	}
}

func validateConfig(cfg model.Config) error {
	if _, err := cfg.Settings(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// newLogger returns a JSON logger writing to path, or a discarding one when
// path is empty. The TUI owns the terminal, so logs never go to stderr.
func newLogger(path, level string) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, f.Close, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyListConfig(cmd *cobra.Command, name string, target *string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = strings.Join(value, ",")
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
