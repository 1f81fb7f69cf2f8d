package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chad/threadsmith/internal/ingest"
	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/score"
	"github.com/chad/threadsmith/internal/thread"
)

var scoreCmd = &cobra.Command{
	Use:   "score <thread.json>",
	Short: "Re-score a saved conversation thread",
	Long:  "Run the quality predictor over a previously generated thread. Pass --brief to enable product-mention checks.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	t, err := thread.Load(args[0])
	if err != nil {
		return err
	}

	library := persona.DefaultLibrary()
	if flagLibrary != "" {
		library, err = persona.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
	}
	sub, ok := persona.FindSubreddit(library.Subreddits, t.Subreddit)
	if !ok {
		return fmt.Errorf("thread targets unknown subreddit %q", t.Subreddit)
	}

	var company *persona.CompanyContext
	if flagBrief != "" {
		company, _, err = ingest.LoadCompanyContext(cmd.Context(), flagBrief)
		if err != nil {
			return err
		}
	}

	q := score.Predict(t, sub, library.Personas, company)
	t.Quality = &q
	printQuality(t)
	return nil
}
