package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"yashubustudio/textcloud/cloud"
	"yashubustudio/textcloud/textcloud"
)

type runOptions struct {
	limit      int
	pos        []string
	background string
	output     string
	saveConfig bool
}

type styles struct {
	title lipgloss.Style
	word  lipgloss.Style
	count lipgloss.Style
	path  lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, word: plain, count: plain, path: plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DAA520")),
		word:  lipgloss.NewStyle().Foreground(lipgloss.Color("#35B779")),
		count: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		path:  lipgloss.NewStyle().Underline(true),
	}
}

// newService builds the pipeline and closes both collaborators when it
// cannot.
func newService(analyzer textcloud.MorphAnalyzer, renderer textcloud.CloudRenderer, cfg textcloud.Config, logger *log.Logger) (*textcloud.Service, error) {
	svc, err := textcloud.NewService(analyzer, renderer, cfg, logger)
	if err != nil {
		for _, c := range []any{analyzer, renderer} {
			if closer, ok := c.(io.Closer); ok {
				_ = closer.Close()
			}
		}
		return nil, err
	}
	return svc, nil
}

func runCloud(cmd *cobra.Command, opts *globalOptions, run *runOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.FileName = args[0]
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultInput
	}
	if flags.Changed("limit") {
		cfg.Limit = run.limit
	}
	if flags.Changed("pos") {
		cfg.POS = run.pos
	}
	if flags.Changed("background") {
		cfg.Background = run.background
	}
	if flags.Changed("output") {
		cfg.Output = run.output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	analyzer, err := textcloud.NewAnalyzer(ctx, cfg.Analyzer, logger)
	if err != nil {
		return err
	}
	renderer, err := cloud.New(cloud.Options{
		FontPath: cfg.Render.FontPath,
		MaxWords: cfg.Render.MaxWords,
		Seed:     cfg.Render.Seed,
		Logger:   logger,
	})
	if err != nil {
		_ = analyzer.Close()
		return fmt.Errorf("init renderer: %w", err)
	}
	service, err := newService(analyzer, renderer, cfg, logger)
	if err != nil {
		return err
	}
	defer service.Close()

	out := cmd.OutOrStdout()
	service.SetReportWriter(out)
	res, err := service.Run(ctx, req)
	if err != nil {
		return err
	}
	printTop(out, newStyles(opts.noColor), res)

	hits, misses := analyzer.Stats()
	logger.Debug("analysis cache", "hits", hits, "misses", misses)

	if run.saveConfig {
		if err := textcloud.SaveConfig(opts.configPath, cfg); err != nil {
			return err
		}
	}
	return nil
}

func printTop(w io.Writer, st styles, res *textcloud.Result) {
	width := 0
	for _, f := range res.Top {
		width = max(width, len([]rune(f.Word)))
	}
	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Топ слов (%d)", len(res.Top))))
	for _, f := range res.Top {
		pad := strings.Repeat(" ", width-len([]rune(f.Word)))
		fmt.Fprintf(w, "  %s%s  %s\n", st.word.Render(f.Word), pad, st.count.Render(fmt.Sprint(f.Count)))
	}
	fmt.Fprintln(w, st.path.Render(res.Output))
}
