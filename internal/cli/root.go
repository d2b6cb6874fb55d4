package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"yashubustudio/textcloud/textcloud"
)

// DefaultInput is read when no file argument is given.
const DefaultInput = "text.txt"

type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
	logLevel   string
	noColor    bool

	analyzer   string
	dictionary string
	python     string
	language   string
}

// NewRootCommand creates the root command.
func NewRootCommand(version, commit, date string) *cobra.Command {
	opts := &globalOptions{}
	run := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "textcloud [file]",
		Short: "Build a word cloud from the nouns and verbs of a text",
		Long: `textcloud reads a UTF-8 text file, reduces every word to its normal form with a
morphological analyzer, keeps the requested parts of speech and renders the most
frequent ones as an 800x400 PNG word cloud.

Without a file argument it reads ` + DefaultInput + ` from the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCloud(cmd, opts, run, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (.json, .yaml)")
	pf.StringVar(&opts.envFile, "env-file", "", "load environment variables from this file instead of .env")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.analyzer, "analyzer", "", "morphological analyzer (builtin, pymorphy)")
	pf.StringVar(&opts.dictionary, "dictionary", "", "extra lexicon TSV for the builtin analyzer")
	pf.StringVar(&opts.python, "python", "", "python interpreter for the pymorphy analyzer")
	pf.StringVar(&opts.language, "lang", "", "language used for lowercasing (BCP 47)")

	f := rootCmd.Flags()
	f.IntVarP(&run.limit, "limit", "n", 0, "number of most frequent words to draw (0 draws all)")
	f.StringSliceVar(&run.pos, "pos", nil, "parts of speech to keep (default VERB,NOUN)")
	f.StringVarP(&run.background, "background", "b", "", "background colour name or #hex (default black)")
	f.StringVarP(&run.output, "output", "o", "", "output PNG path (default "+textcloud.DefaultOutput+")")
	f.BoolVar(&run.saveConfig, "save-config", false, "write the effective settings back to the config file")

	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))
	return rootCmd
}

func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, opts *globalOptions) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	if opts.logLevel != "" {
		parsed, err := log.ParseLevel(opts.logLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "textcloud",
		ReportTimestamp: opts.verbose,
	}), nil
}

// loadConfig reads the config file, then env overrides, then explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (textcloud.Config, error) {
	cfg, err := textcloud.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("analyzer") {
		cfg.Analyzer.Kind = textcloud.AnalyzerKind(opts.analyzer)
	}
	if flags.Changed("dictionary") {
		cfg.Analyzer.Dictionary = opts.dictionary
	}
	if flags.Changed("python") {
		cfg.Analyzer.Python = opts.python
	}
	if flags.Changed("lang") {
		cfg.Language = opts.language
	}
	return cfg, nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			if commit == "none" || commit == "" {
				commit = "local-build"
			}
			if date == "unknown" || date == "" {
				date = "local-build"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "textcloud %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
