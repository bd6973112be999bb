// Package main provides the CLI entrypoint for sprooch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lmersch/sprooch/internal/config"
	"github.com/lmersch/sprooch/internal/extract"
	"github.com/lmersch/sprooch/internal/model"
	"github.com/lmersch/sprooch/internal/record"
	"github.com/lmersch/sprooch/internal/reference"
	"github.com/lmersch/sprooch/internal/session"
	"github.com/lmersch/sprooch/internal/stats"
	"github.com/lmersch/sprooch/internal/store"
	"github.com/lmersch/sprooch/internal/tui"
	"github.com/lmersch/sprooch/internal/wordbank"
)

const (
	defaultWords       = 5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
	defaultAnalyzerURL = "http://localhost:8787"
)

var (
	practiceWords       int
	practiceMaxAttempts int
	practiceUser        string
	practiceAnalyzerURL string
	practiceRecordCmd   string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceWeakWindow  int

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sprooch",
		Short:         "Luxembourgish pronunciation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per session")
	rootCmd.Flags().IntVar(&practiceMaxAttempts, "max-attempts", session.DefaultMaxAttempts, "attempts per word")
	rootCmd.Flags().StringVar(&practiceUser, "user", "default", "learner name for progress tracking")
	rootCmd.Flags().StringVar(&practiceAnalyzerURL, "analyzer-url", defaultAnalyzerURL, "phonetics analyzer service URL")
	rootCmd.Flags().StringVar(&practiceRecordCmd, "record-cmd", record.DefaultCommand, "audio capture command with a {path} placeholder")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak words")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak words to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak words")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak words")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyIntConfig(cmd, "max-attempts", &practiceMaxAttempts, fileCfg.Practice.MaxAttempts)
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	applyStringConfig(cmd, "analyzer-url", &practiceAnalyzerURL, fileCfg.Analyzer.URL)
	applyStringConfig(cmd, "record-cmd", &practiceRecordCmd, fileCfg.Practice.RecordCmd)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.PracticeConfig{
		Words:       practiceWords,
		MaxAttempts: practiceMaxAttempts,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
		WeakWindow:  practiceWeakWindow,
		AnalyzerURL: practiceAnalyzerURL,
		RecordCmd:   practiceRecordCmd,
		User:        practiceUser,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	bankPath := config.DefaultWordBankPath()
	if err := wordbank.EnsureDefault(bankPath); err != nil {
		return fmt.Errorf("failed to create word bank: %w", err)
	}
	bank, err := wordbank.Load(bankPath)
	if err != nil {
		return fmt.Errorf("failed to load word bank: %w", err)
	}
	pool := bank.Eligible()
	if len(pool) == 0 {
		return fmt.Errorf("no words with reference audio in %s (add audio URLs, then run: sprooch fetch)", bankPath)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakWeights := map[string]float64{}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakWords(context.Background(), cfg.WeakWindow)
		if err != nil {
			logErrf("failed to load weak words: %v\n", err)
		} else if len(aggs) == 0 {
			logErrln("no stats available for weak-word focus yet; using uniform sampling")
		} else {
			weakWeights = stats.SelectWeakWords(aggs, cfg.WeakTop, cfg.WeakFactor)
		}
	}

	sess, err := session.New(context.Background(), pool, cfg.Words, session.Options{
		Gateway:     st,
		User:        cfg.User,
		MaxAttempts: cfg.MaxAttempts,
		WeakWeights: weakWeights,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	recorder := record.NewCommandRecorder(cfg.RecordCmd, filepath.Join(os.TempDir(), "sprooch"))
	extractor := extract.NewClient(cfg.AnalyzerURL)
	refs := reference.NewManager(config.DefaultReferenceDir())

	ui := tui.NewModel(sess, extractor, refs, recorder)
	program := tea.NewProgram(ui, tea.WithAltScreen())
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
		Short: "Show progress stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weakest words to show")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
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
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderCategoryTable(out, report.Categories); err != nil {
		return fmt.Errorf("failed to render categories: %w", err)
	}
	if err := stats.RenderWeakWords(out, report.WeakWords, statsWeakTop); err != nil {
		return fmt.Errorf("failed to render weak words: %w", err)
	}
	if err := stats.RenderScoreCurve(out, report.Sessions, cfg.CurveWindow, 0, 0, false); err != nil {
		return fmt.Errorf("failed to render score curve: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "List the word bank",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	bankPath := config.DefaultWordBankPath()
	if err := wordbank.EnsureDefault(bankPath); err != nil {
		return fmt.Errorf("failed to create word bank: %w", err)
	}
	bank, err := wordbank.Load(bankPath)
	if err != nil {
		return fmt.Errorf("failed to load word bank: %w", err)
	}
	words := bank.Words()
	if len(words) == 0 {
		return fmt.Errorf("word bank is empty: %s", bankPath)
	}
	for _, w := range words {
		marker := " "
		if w.HasReference() {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-20s %s\n", marker, w.Word, w.Translation, w.Category); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "\n* = reference audio configured"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download reference audio for the word bank",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
}

func runFetchCmd(_ *cobra.Command, _ []string) error {
	bank, err := wordbank.Load(config.DefaultWordBankPath())
	if err != nil {
		return fmt.Errorf("failed to load word bank: %w", err)
	}
	eligible := bank.Eligible()
	if len(eligible) == 0 {
		return fmt.Errorf("no words with reference audio configured")
	}

	refs := reference.NewManager(config.DefaultReferenceDir())
	ctx := context.Background()
	failed := 0
	for _, w := range eligible {
		if refs.Cached(w.Word) {
			logErrf("cached  %s\n", w.Word)
			continue
		}
		if _, err := refs.Ensure(ctx, w.Word, w.AudioURL); err != nil {
			logErrf("failed  %s: %v\n", w.Word, err)
			failed++
			continue
		}
		logErrf("fetched %s\n", w.Word)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(eligible))
	}
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# sprooch configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# words = %d              # Words per session
# max-attempts = %d       # Attempts per word
# user = "default"        # Learner name for progress tracking
# record-cmd = %q
# focus-weak = false      # Bias practice toward weak words
# weak-top = %d           # Number of weak words to focus on
# weak-factor = %.1f      # Weight factor for weak words
# weak-window = %d        # Number of recent sessions to compute weak words

[analyzer]
# url = %q
`,
		defaultWords,
		session.DefaultMaxAttempts,
		record.DefaultCommand,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultAnalyzerURL,
	)
}

func validateConfig(cfg model.PracticeConfig) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("--max-attempts must be > 0")
	}
	if cfg.User == "" {
		return fmt.Errorf("--user must not be empty")
	}
	if cfg.AnalyzerURL == "" {
		return fmt.Errorf("--analyzer-url must not be empty")
	}
	if !strings.Contains(cfg.RecordCmd, "{path}") {
		return fmt.Errorf("--record-cmd must contain a {path} placeholder")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
