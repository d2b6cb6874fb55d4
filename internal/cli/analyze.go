package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/textcloud/morph"
	"yashubustudio/textcloud/textcloud"
)

func newAnalyzeCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze WORD...",
		Short: "Print the best morphological analysis of each word",
		Example: `  textcloud analyze кошки бегут
  textcloud analyze --analyzer pymorphy стекло`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			analyzer, err := textcloud.NewAnalyzer(cmd.Context(), cfg.Analyzer, logger)
			if err != nil {
				return err
			}
			defer analyzer.Close()

			normalizer, err := textcloud.NewNormalizer(cfg.Language)
			if err != nil {
				return err
			}
			var parses []morph.Parse
			for _, arg := range args {
				for _, tok := range normalizer.Normalize(arg) {
					p, err := analyzer.Analyze(cmd.Context(), tok)
					if err != nil {
						return fmt.Errorf("analyze %q: %w", tok, err)
					}
					parses = append(parses, p)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(parses)
			}
			st := newStyles(opts.noColor)
			for _, p := range parses {
				pos := string(p.POS)
				if pos == "" {
					pos = "-"
				}
				known := ""
				if !p.Known {
					known = " ?"
				}
				fmt.Fprintf(out, "%s -> %s %s %.2f%s\n",
					p.Word, st.word.Render(p.NormalForm), st.title.Render(pos), p.Score, known)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print analyses as JSON")
	return cmd
}
