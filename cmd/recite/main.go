// Package main provides the CLI entrypoint for recite.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/recite/internal/config"
	"github.com/verte-zerg/recite/internal/doctor"
	"github.com/verte-zerg/recite/internal/generator"
	"github.com/verte-zerg/recite/internal/logging"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/session"
	"github.com/verte-zerg/recite/internal/speech"
	"github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/tui"
	"github.com/verte-zerg/recite/internal/wordlist"
)

const (
	defaultLang        = "en"
	defaultWords       = 24
	defaultSentenceLen = 8
	defaultLogLevel    = "info"
)

var (
	testPassage   string
	testTimeLimit int
	speechCommand string
	speechLang    string
	wordListPath  string

	addTitle string
	addLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recite",
		Short:         "TUI reading aloud assessment",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testPassage, "passage", session.DefaultPassage, "passage to read aloud")
	rootCmd.Flags().IntVar(&testTimeLimit, "time-limit", 0, "time limit in seconds (0 = untimed)")
	rootCmd.Flags().StringVar(&speechCommand, "speech-cmd", "", "speech recognizer command line")
	rootCmd.Flags().StringVar(&speechLang, "lang", defaultLang, "recognizer and word list language")
	rootCmd.Flags().StringVar(&wordListPath, "wordlist", "", "word list for generated passages")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}

// resolved is the merged flag and file configuration.
type resolved struct {
	cfg      model.Config
	logLevel string
	// explicitWordList is set when the word list path came from a flag or the file.
	explicitWordList bool
}

func resolveConfig(cmd *cobra.Command) (resolved, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return resolved{}, fmt.Errorf("failed to load config: %w", err)
	}
	return mergeConfig(cmd, fileCfg)
}

func mergeConfig(cmd *cobra.Command, fileCfg config.FileConfig) (resolved, error) {
	applyStringConfig(cmd, "passage", &testPassage, fileCfg.Test.Passage)
	applyIntConfig(cmd, "time-limit", &testTimeLimit, fileCfg.Test.TimeLimit)
	applyStringConfig(cmd, "speech-cmd", &speechCommand, fileCfg.Speech.Command)
	applyStringConfig(cmd, "lang", &speechLang, fileCfg.Speech.Lang)
	applyStringConfig(cmd, "wordlist", &wordListPath, fileCfg.Generator.WordList)

	words := defaultWords
	if fileCfg.Generator.Words != nil {
		words = *fileCfg.Generator.Words
	}
	sentenceLen := defaultSentenceLen
	if fileCfg.Generator.SentenceLen != nil {
		sentenceLen = *fileCfg.Generator.SentenceLen
	}
	logLevel := defaultLogLevel
	if fileCfg.Log.Level != nil {
		logLevel = *fileCfg.Log.Level
	}

	out := resolved{
		cfg: model.Config{
			Passage:       testPassage,
			TimeLimit:     time.Duration(testTimeLimit) * time.Second,
			SpeechCommand: strings.TrimSpace(speechCommand),
			Lang:          strings.TrimSpace(speechLang),
			WordListPath:  strings.TrimSpace(wordListPath),
			Words:         words,
			SentenceLen:   sentenceLen,
		},
		logLevel:         logLevel,
		explicitWordList: strings.TrimSpace(wordListPath) != "",
	}
	if !out.explicitWordList {
		out.cfg.WordListPath = config.DefaultWordListPath(out.cfg.Lang)
	}
	if err := validateConfig(out.cfg); err != nil {
		return resolved{}, err
	}
	return out, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("--time-limit must be >= 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("generator words must be greater than 0")
	}
	if cfg.SentenceLen <= 0 {
		return fmt.Errorf("generator sentence must be greater than 0")
	}
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	return nil
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("recite needs an interactive terminal")
	}
	res, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg := res.cfg

	logRuntime, err := logging.New(config.DefaultLogPath(), res.logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logRuntime.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger := logRuntime.Logger

	source, err := loadSource(cfg, res.explicitWordList)
	if err != nil {
		return err
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
	library, err := st.ListPassages(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load passages: %w", err)
	}

	var recognizer speech.Recognizer
	if cfg.SpeechCommand != "" {
		rec, err := speech.NewExecRecognizer(cfg.SpeechCommand, cfg.Lang, logger)
		if err != nil {
			return fmt.Errorf("invalid --speech-cmd: %w", err)
		}
		recognizer = rec
	}

	logger.Info("starting", "passages", len(library), "speech_cmd", cfg.SpeechCommand, "lang", cfg.Lang)
	app := tui.NewApp(appOptions(cfg, logger, recognizer, library, source))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// appOptions wires the TUI. Components tag their own records, so logger is passed as is.
func appOptions(cfg model.Config, logger *slog.Logger, recognizer speech.Recognizer, library []model.Passage, source tui.PassageSource) tui.Options {
	return tui.Options{
		Controller: session.NewController(logger, cfg.Passage),
		Provider:   speech.CommandProvider{Command: cfg.SpeechCommand, Logger: logger},
		Recognizer: recognizer,
		Library:    library,
		Source:     source,
		TimeLimit:  cfg.TimeLimit,
		Logger:     logger.With("component", "tui"),
	}
}

// loadSource returns nil when no word list is available; a configured list that fails
// to load is an error.
func loadSource(cfg model.Config, explicit bool) (tui.PassageSource, error) {
	words, err := wordlist.LoadWords(cfg.WordListPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
	}
	words = wordlist.Filter(words, wordlist.FilterForLang(cfg.Lang))
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s has no usable %s words", cfg.WordListPath, cfg.Lang)
	}
	return generator.Source{
		Gen:         generator.New(),
		Words:       words,
		Count:       cfg.Words,
		SentenceLen: cfg.SentenceLen,
	}, nil
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

func ensureConfigFile(path string) error {
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
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# recite configuration. Command line flags override these values.

[test]
# passage = "The quick brown fox jumps over the lazy dog."
time-limit = 0 # seconds, 0 = untimed

[speech]
# Recognizer command. It must print one transcript segment per line, either plain
# text or JSON like {"text": "...", "final": true}.
# command = "vosk-transcriber --stream"
language = %q

[generator]
# wordlist = "/path/to/words.txt"
words = %d
sentence = %d

[log]
level = %q
`, defaultLang, defaultWords, defaultSentenceLen, defaultLogLevel)
}

func newPassagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "Manage saved passages",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved passages",
		Args:  cobra.NoArgs,
		RunE:  runPassagesListCmd,
	}
	addCmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Save a passage (reads stdin when no text is given)",
		RunE:  runPassagesAddCmd,
	}
	addCmd.Flags().StringVar(&addTitle, "title", "", "passage title (default: first words)")
	addCmd.Flags().IntVar(&addLimit, "limit", 0, "time limit in seconds (0 = untimed)")
	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved passage",
		Args:  cobra.ExactArgs(1),
		RunE:  runPassagesRmCmd,
	}

	cmd.AddCommand(listCmd, addCmd, rmCmd)
	return cmd
}

func withStore(ctx context.Context, fn func(context.Context, *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(ctx, st)
}

func runPassagesListCmd(cmd *cobra.Command, _ []string) error {
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		passages, err := st.ListPassages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list passages: %w", err)
		}
		if len(passages) == 0 {
			logErrln("No saved passages. Add one with: recite passages add")
			return nil
		}
		for _, line := range passageTable(passages) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	})
}

func passageTable(passages []model.Passage) []string {
	cols := []stats.Column{
		{Header: "ID", RightAlign: true},
		{Header: "TITLE", MaxWidth: 40},
		{Header: "WORDS", RightAlign: true},
		{Header: "LIMIT", RightAlign: true},
		{Header: "CREATED"},
	}
	rows := make([][]string, 0, len(passages))
	for _, p := range passages {
		limit := "-"
		if p.TimeLimit > 0 {
			limit = p.TimeLimit.String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			strconv.Itoa(len(strings.Fields(p.Body))),
			limit,
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return stats.FormatTable(cols, rows)
}

func runPassagesAddCmd(cmd *cobra.Command, args []string) error {
	body, err := passageBody(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if addLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		id, err := st.AddPassage(ctx, model.Passage{
			Title:     addTitle,
			Body:      body,
			TimeLimit: time.Duration(addLimit) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to save passage: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved passage %d\n", id)
		return err
	})
}

func passageBody(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read passage from stdin: %w", err)
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", fmt.Errorf("passage text is empty")
	}
	return body, nil
}

func runPassagesRmCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid passage id %q", args[0])
	}
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		if err := st.DeletePassage(ctx, id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted passage %d\n", id)
		return err
	})
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check speech recognizer, config, and storage readiness",
		Args:  cobra.NoArgs,
		RunE:  runDoctorCmd,
	}
}

func runDoctorCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	in := doctor.Input{ConfigPath: path, DBPath: config.DefaultDBPath()}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		in.ConfigErr = err
	} else {
		if fileCfg.Speech.Command != nil {
			in.SpeechCommand = *fileCfg.Speech.Command
		}
		if fileCfg.Generator.WordList != nil {
			in.WordListPath = *fileCfg.Generator.WordList
		}
	}

	report := doctor.Run(cmd.Context(), in)
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), report.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !report.OK() {
		return fmt.Errorf("doctor found problems")
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
