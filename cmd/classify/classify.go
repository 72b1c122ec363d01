// Package classify classifies a single text from the command line
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"fjacquet/mood-journal/cmd/root"
	"fjacquet/mood-journal/internal/classifier"

	"github.com/spf13/cobra"
)

var (
	text       string
	jsonOutput bool
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the emotion of a text",
	Long: `Classify the emotion of a text without storing it.

The text is read from --text or, when omitted, from standard input. The remote
model is used when an API token is configured; otherwise the keyword heuristic
answers.`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&text, "text", "t", "", "Text to classify (default: read standard input)")
	Cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	input := text
	if input == "" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("error reading standard input: %w", err)
		}
		input = string(b)
	}

	logger := root.Logger()
	pipeline := classifier.NewPipeline(
		classifier.NewRemoteClassifier(root.AppConfig.ClassifierConfig(), logger),
		classifier.NewHeuristicClassifier(),
		logger,
	)
	return classifyText(cmd.Context(), cmd.OutOrStdout(), pipeline, input, jsonOutput)
}

type scored struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func classifyText(ctx context.Context, w io.Writer, p *classifier.Pipeline, input string, asJSON bool) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("no text to classify")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := p.ClassifyDetailed(ctx, input)

	scores := make([]scored, 0, len(c.Result.Scores))
	for label, score := range c.Result.Scores {
		scores = append(scores, scored{Label: label, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Label  string   `json:"label"`
			Source string   `json:"source"`
			Scores []scored `json:"scores"`
		}{c.Result.Label, c.Source, scores})
	}

	fmt.Fprintf(w, "label:  %s\n", c.Result.Label)
	fmt.Fprintf(w, "source: %s\n", c.Source)
	fmt.Fprintln(w, "scores:")
	for _, s := range scores {
		fmt.Fprintf(w, "  %-10s %.4f\n", s.Label, s.Score)
	}
	return nil
}
