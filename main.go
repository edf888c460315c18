// Package main provides the entry point for the basictts CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/basictts/internal/paths"
	"github.com/dgnsrekt/basictts/internal/text"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/dgnsrekt/basictts/tts/engines"
	gap "github.com/muesli/go-app-paths"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile    string
	debug         bool
	useClipboard  bool
	markdownInput bool

	engineFlag     string
	voiceFlag      string
	langFlag       string
	volumeFlag     float64
	pitchFlag      float64
	rateFlag       float64
	attemptsFlag   int
	retryDelayFlag time.Duration

	rootCmd = &cobra.Command{
		Use:   "basictts [TEXT...]",
		Short: "Speak text through the system speech engine",
		Long: paragraph(
			fmt.Sprintf("\nSpeak text through the %s speech engine, waiting for its voices to load.", keyword("system")),
		),
		Example: paragraph("basictts hello world\necho 'piped text' | basictts --voice Alex\nbasictts --markdown < README.md"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if debug {
		enableDebugOutput()
	}

	if cmd.Flags().Changed("config") {
		configFile = paths.Expand(configFile)
		if cmd == configCmd {
			// The file may not exist yet; config creates it.
			return nil
		}
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}
	return nil
}

// loadConfig layers changed flags over the file and environment settings.
func loadConfig(cmd *cobra.Command) (tts.Config, error) {
	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engineFlag
	}
	if flags.Changed("voice") {
		cfg.Voice = voiceFlag
	}
	if flags.Changed("lang") {
		cfg.Lang = lo.ToPtr(langFlag)
	}
	if flags.Changed("volume") {
		cfg.Volume = lo.ToPtr(volumeFlag)
	}
	if flags.Changed("pitch") {
		cfg.Pitch = lo.ToPtr(pitchFlag)
	}
	if flags.Changed("rate") {
		cfg.Rate = lo.ToPtr(rateFlag)
	}
	if flags.Changed("attempts") {
		cfg.MaxAttempts = attemptsFlag
	}
	if flags.Changed("retry-delay") {
		cfg.RetryDelay = retryDelayFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readText picks the text to speak from args, the clipboard or stdin.
func readText(args []string, stdin io.Reader) (string, error) {
	var content string

	switch {
	case len(args) > 0 && !(len(args) == 1 && args[0] == "-"):
		content = strings.Join(args, " ")

	case useClipboard:
		s, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
		content = s

	default:
		piped, err := stdinIsPipe()
		if err != nil {
			return "", err
		}
		if !piped && len(args) == 0 {
			return "", errors.New("nothing to speak: pass TEXT, pipe it on stdin or use --clipboard")
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from reader: %w", err)
		}
		content = string(b)
	}

	if markdownInput {
		content = text.StripMarkdown([]byte(content))
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("nothing to speak: input is empty")
	}
	return content, nil
}

// newHost builds the configured engine. Callers must close the closer.
func newHost(cmd *cobra.Command) (tts.Config, *tts.Host, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	host, closer, err := engines.NewHost(cfg)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("unable to start speech engine: %w", err)
	}
	return cfg, host, closer, nil
}

func execute(cmd *cobra.Command, args []string) error {
	content, err := readText(args, os.Stdin)
	if err != nil {
		return err
	}

	cfg, host, closer, err := newHost(cmd)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	speaker, err := tts.NewSpeaker(host, cfg.ToProperties(), cfg.SpeakerOptions()...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Debug("Speaking", "chars", len(content), "engine", cfg.Engine)

	if err := speaker.Speak(ctx, content); err != nil {
		printSuggestions(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// printSuggestions lists close voice names after an invalid voice error.
func printSuggestions(w io.Writer, err error) {
	var ttsErr *tts.Error
	if !errors.As(err, &ttsErr) || !errors.Is(err, tts.ErrInvalidVoice) {
		return
	}
	suggestions, _ := ttsErr.Context["suggestions"].([]string)
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintln(w, faint("Run `basictts voices` to list available voices."))
		return
	}
	_, _ = fmt.Fprintf(w, "Did you mean %s?\n", strings.Join(lo.Map(suggestions, func(s string, _ int) string {
		return keyword(fmt.Sprintf("%q", s))
	}), ", "))
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	pf.BoolVar(&debug, "debug", false, "print debug logs to stderr")
	pf.StringVarP(&engineFlag, "engine", "e", tts.EngineAuto, fmt.Sprintf("speech engine (%s)", strings.Join(engines.Names(), ", ")))
	pf.StringVarP(&langFlag, "lang", "l", "", "BCP 47 language tag, e.g. en-US")
	pf.IntVar(&attemptsFlag, "attempts", tts.DefaultMaxAttempts, fmt.Sprintf("voice list retries (0-%d)", tts.DefaultMaxAttempts))
	pf.DurationVar(&retryDelayFlag, "retry-delay", tts.DefaultRetryDelay, "wait before each voice list query")

	rootCmd.Flags().StringVarP(&voiceFlag, "voice", "v", "", "exact voice name (see `basictts voices`)")
	rootCmd.Flags().Float64Var(&volumeFlag, "volume", 1, "volume from 0 to 1")
	rootCmd.Flags().Float64VarP(&pitchFlag, "pitch", "p", 1, "pitch from 0 to 2")
	rootCmd.Flags().Float64VarP(&rateFlag, "rate", "r", 1, "speaking rate from 0.1 to 10")
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "speak the clipboard contents")
	rootCmd.Flags().BoolVarP(&markdownInput, "markdown", "m", false, "strip markdown before speaking")

	tts.SetDefaults()

	rootCmd.AddCommand(voicesCmd, checkCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "basictts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "basictts")}, dirs...)
	}

	if c := os.Getenv("BASICTTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("basictts")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "basictts.yml")
}
