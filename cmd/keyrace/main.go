// Package main provides the CLI entrypoint for keyrace.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyrace/internal/config"
	"github.com/verte-zerg/keyrace/internal/engine"
	"github.com/verte-zerg/keyrace/internal/metrics"
	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/passage"
	"github.com/verte-zerg/keyrace/internal/session"
	"github.com/verte-zerg/keyrace/internal/stats"
	"github.com/verte-zerg/keyrace/internal/statsui"
	"github.com/verte-zerg/keyrace/internal/storage"
	"github.com/verte-zerg/keyrace/internal/textnorm"
	"github.com/verte-zerg/keyrace/internal/tui"
)

const (
	defaultBots        = 3
	defaultProfile     = "balanced"
	defaultMaxLength   = 400
	defaultCurveWindow = 5
)

var (
	raceBots        int
	raceProfile     string
	raceStrict      bool
	raceBeginner    bool
	raceMaxLength   int
	racePassage     string
	racePassageFile string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsInteractive bool

	passagesSaveFile  string
	passagesSaveTitle string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keyrace",
		Short:         "TUI typing racer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRaceCmd,
	}

	rootCmd.Flags().IntVar(&raceBots, "bots", defaultBots, "number of bot opponents")
	rootCmd.Flags().StringVar(&raceProfile, "profile", defaultProfile, "bot profile: chill, balanced, speedy")
	rootCmd.Flags().BoolVar(&raceStrict, "strict", false, "reject mistyped characters instead of scoring them later")
	rootCmd.Flags().BoolVar(&raceBeginner, "beginner", false, "simplify passages to a basic character set")
	rootCmd.Flags().IntVar(&raceMaxLength, "max-length", defaultMaxLength, "passage length cap in characters")
	rootCmd.Flags().StringVar(&racePassage, "passage", "random", "built-in passage index or 'random'")
	rootCmd.Flags().StringVar(&racePassageFile, "passage-file", "", "race over a custom text file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newPassagesCmd())

	return rootCmd
}

func runRaceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "bots", &raceBots, fileCfg.Race.Bots)
	applyStringConfig(cmd, "profile", &raceProfile, fileCfg.Race.Profile)
	applyBoolConfig(cmd, "strict", &raceStrict, fileCfg.Race.Strict)
	applyBoolConfig(cmd, "beginner", &raceBeginner, fileCfg.Race.Beginner)
	applyIntConfig(cmd, "max-length", &raceMaxLength, fileCfg.Race.MaxLength)
	applyStringConfig(cmd, "passage", &racePassage, fileCfg.Race.Passage)

	cfg := model.Config{
		Bots:        raceBots,
		Profile:     raceProfile,
		Strict:      raceStrict,
		Beginner:    raceBeginner,
		MaxLength:   raceMaxLength,
		Passage:     racePassage,
		PassageFile: racePassageFile,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	title, text, err := resolvePassage(cfg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("passage is empty; pick another with --passage or --passage-file")
	}

	st, err := storage.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	mgr := session.NewManager(context.Background(), st, time.Now())
	race := engine.NewRace(title, text, cfg.Strict, cfg.Bots, engine.Profile(cfg.Profile), engine.NewSimulator())

	racerModel := tui.NewModel(race, mgr)
	program := tea.NewProgram(racerModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolvePassage(cfg model.Config) (title, text string, err error) {
	opts := textnorm.Options{Beginner: cfg.Beginner, MaxLength: cfg.MaxLength}
	if cfg.PassageFile != "" {
		text, err := passage.LoadFile(cfg.PassageFile, opts)
		if err != nil {
			return "", "", fmt.Errorf("failed to load passage file: %w", err)
		}
		title := strings.TrimSuffix(filepath.Base(cfg.PassageFile), filepath.Ext(cfg.PassageFile))
		return title, text, nil
	}

	var builtin passage.Builtin
	if cfg.Passage == "" || cfg.Passage == "random" {
		builtin = passage.RandomBuiltin(rand.New(rand.NewSource(time.Now().UnixNano())))
	} else {
		index, convErr := strconv.Atoi(cfg.Passage)
		if convErr != nil {
			return "", "", fmt.Errorf("--passage must be a built-in index or 'random', got %q", cfg.Passage)
		}
		var ok bool
		builtin, ok = passage.BuiltinByIndex(index)
		if !ok {
			return "", "", fmt.Errorf("no built-in passage %d (run: keyrace passages)", index)
		}
	}
	return builtin.Title, textnorm.Normalize(builtin.Text, opts), nil
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
		Short: "Show session stats and history",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N races")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsInteractive, "interactive", false, "browse stats in a TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	statsCfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Interactive: statsInteractive,
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		statsCfg.Since = &parsed
	}

	st, err := storage.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	mgr := session.NewManager(ctx, st, time.Now())
	sess := mgr.Session()
	sess.Races = filterRaces(sess.Races, statsCfg)
	history := mgr.History()

	if statsCfg.Interactive {
		statsModel := statsui.NewModel(sess, history, mgr.Lifetime())
		program := tea.NewProgram(statsModel, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderLifetime(out, mgr.Lifetime()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	insights := metrics.Insights(sess, history)
	if err := stats.RenderSession(out, sess, insights); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRaces(out, sess.Races); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(sess.Races) >= 2 {
		wpms := stats.MovingAverage(stats.RaceWPMs(sess.Races), statsCfg.CurveWindow)
		if err := stats.PlotSeries(out, "WPM curve", []stats.Series{{Name: "WPM", Values: wpms}}, 0, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := stats.RenderHistory(out, history); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func filterRaces(races []model.RaceRecord, cfg model.StatsConfig) []model.RaceRecord {
	out := races
	if cfg.Since != nil {
		filtered := make([]model.RaceRecord, 0, len(out))
		for _, r := range out {
			if !r.Date.Before(*cfg.Since) {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

func newPassagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "List built-in and saved passages",
		RunE:  runPassagesCmd,
	}
	cmd.Flags().StringVar(&passagesSaveFile, "save", "", "add a text file to the saved library")
	cmd.Flags().StringVar(&passagesSaveTitle, "title", "", "title for the saved passage")
	return cmd
}

func runPassagesCmd(cmd *cobra.Command, _ []string) error {
	st, err := storage.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	ctx := context.Background()

	if passagesSaveFile != "" {
		text, err := passage.LoadFile(passagesSaveFile, textnorm.Options{})
		if err != nil {
			return fmt.Errorf("failed to load passage file: %w", err)
		}
		title := passagesSaveTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(passagesSaveFile), filepath.Ext(passagesSaveFile))
		}
		passage.SaveToLibrary(ctx, st, title, text, time.Now())
		logErrf("Saved %q to the passage library\n", title)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, "Built-in passages:"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for i, b := range passage.Builtins() {
		if _, err := fmt.Fprintf(out, "%2d  %s (%d chars)\n", i+1, b.Title, len(b.Text)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	lib := passage.LoadLibrary(ctx, st)
	if len(lib.Passages) > 0 {
		if _, err := fmt.Fprintln(out, "\nSaved passages:"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, p := range lib.Passages {
			if _, err := fmt.Fprintf(out, "    %s (%d chars, saved %s)\n",
				p.Title, len(p.Text), p.SavedAt.Local().Format("2006-01-02")); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Bots < 0 {
		return fmt.Errorf("--bots must be >= 0")
	}
	switch engine.Profile(cfg.Profile) {
	case engine.ProfileChill, engine.ProfileBalanced, engine.ProfileSpeedy:
	default:
		return fmt.Errorf("--profile must be chill, balanced, or speedy")
	}
	if cfg.MaxLength < 0 {
		return fmt.Errorf("--max-length must be >= 0")
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
	return fmt.Sprintf(`# keyrace configuration
# Uncomment a value to enable it. CLI flags override config values.

[race]
# bots = %d              # Number of bot opponents
# profile = %q    # Bot profile: chill, balanced, speedy
# strict = false        # Reject mistyped characters
# beginner = false      # Simplify passages to a basic character set
# max-length = %d      # Passage length cap in characters
# passage = "random"    # Built-in passage index or "random"
`,
		defaultBots,
		defaultProfile,
		defaultMaxLength,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
