// Package main provides the CLI entrypoint for recite.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/recite/internal/config"
	"github.com/verte-zerg/recite/internal/document"
	"github.com/verte-zerg/recite/internal/logging"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/poem"
	"github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/tui"
)

const (
	defaultRetries     = 5
	defaultCurveWindow = 10
	defaultTop         = 15
)

var (
	practiceRetries   int
	practiceNoHistory bool
	logLevel          string

	statsDocument    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recite [file|-]",
		Short:         "Memorize poems one blanked-out word at a time",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&practiceRetries, "retries", defaultRetries, "extra line picks when a line has no word to hide")
	rootCmd.Flags().BoolVar(&practiceNoHistory, "no-history", false, "do not record practice history")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLinesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func loadSettings(cmd *cobra.Command) (config.FileConfig, *clog.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	logger, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return config.FileConfig{}, nil, err
	}
	return fileCfg, logger, nil
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "retries", &practiceRetries, fileCfg.Practice.Retries)
	applyBoolConfig(cmd, "no-history", &practiceNoHistory, fileCfg.Practice.NoHistory)

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if fileCfg.Practice.Document != nil {
		path = *fileCfg.Practice.Document
	}
	if path == "" {
		return fmt.Errorf("no document given (pass a file, '-' for stdin, or set practice.document in %s)", config.DefaultConfigPath())
	}

	cfg := model.Config{
		Document:  path,
		Retries:   practiceRetries,
		NoHistory: practiceNoHistory,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	src := document.Resolve(cfg.Document, cmd.InOrStdin())
	engine, err := loadEngine(src, logger)
	if err != nil {
		return err
	}

	var st *store.Store
	if !cfg.NoHistory {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("failed to close db", "err", cerr)
			}
		}()
	}

	tuiLogger, logFile, err := openTUILogger(config.DefaultLogPath(), logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logger.Error("failed to close log file", "err", cerr)
		}
	}()

	m := tui.NewModel(cfg, st, engine, src.Name(), tuiLogger)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Document == document.StdinPath {
		// stdin carried the poem; keys come from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}
	program := tea.NewProgram(m, opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openTUILogger sends logs to a file so they do not draw over the alt screen.
func openTUILogger(path, level string) (*clog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "recite")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := logging.New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// loadEngine reads the document and loads it into a new engine.
// Absent text is reported instead of loading an empty poem.
func loadEngine(src document.Source, logger *clog.Logger) (*poem.Engine, error) {
	text, ok, err := src.ActiveText()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("document %s has no text", src.Name())
	}
	engine := poem.New(nil)
	engine.Load(text)
	logger.Debug("document loaded", "document", src.Name(), "lines", len(engine.Lines()), "title", engine.Meta().Title)
	return engine, nil
}

func newLinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines <file|->",
		Short: "List the lines eligible for drills",
		Args:  cobra.ExactArgs(1),
		RunE:  runLinesCmd,
	}
}

func runLinesCmd(cmd *cobra.Command, args []string) error {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	engine, err := loadEngine(document.Resolve(args[0], cmd.InOrStdin()), logger)
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), engine)
}

func writeLines(w io.Writer, engine *poem.Engine) error {
	if heading := engine.Meta().Heading(); heading != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", heading); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	count := 0
	for i, line := range engine.CandidateLines() {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", i, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		count++
	}
	if count == 0 {
		return poem.ErrNoEligibleLines
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDocument, "document", "", "only sessions for this file")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of words to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         statsTop,
	}
	if statsDocument != "" {
		cfg.Document = document.Resolve(statsDocument, nil).Name()
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), cfg, 0)
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# recite configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# document = "/path/to/poem.md"             # Poem used when no file is given
# retries = %d                               # Extra line picks when a line has no word to hide
# no-history = false                         # Do not record practice history

[log]
# level = %q                                 # debug, info, warn, error
`,
		defaultRetries,
		logging.DefaultLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Retries < 0 {
		return fmt.Errorf("--retries must be >= 0")
	}
	return nil
}
