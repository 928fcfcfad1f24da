package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	scoreAnswers string
	scoreLang    string
	scorePremium bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answers file and print the profile and guide",
	Long: `Reads a YAML (or JSON) map of assessment question id to A|B|C|D,
prints per-dimension scores and priorities, then the selected guide with the
free/locked split. Nothing is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(scoreAnswers)
		if err != nil {
			return fmt.Errorf("reading answers: %w", err)
		}
		return runScore(cmd.OutOrStdout(), bank.Default(), data, bank.ParseLanguage(scoreLang), scorePremium)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreAnswers, "answers", "", "answers file (YAML or JSON)")
	scoreCmd.Flags().StringVar(&scoreLang, "lang", "en", "output language: en|hi")
	scoreCmd.Flags().BoolVar(&scorePremium, "premium", false, "show the full guide")
	_ = scoreCmd.MarkFlagRequired("answers")
}

// parseAnswersFile decodes and validates an answers map against b.
func parseAnswersFile(b *bank.Bank, data []byte) (scoring.Answers, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	answers := scoring.Answers{}
	for _, id := range ids {
		if _, ok := b.AssessmentQuestion(id); !ok {
			return nil, fmt.Errorf("unknown question %q", id)
		}
		a, err := scoring.ParseAnswer(raw[id])
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", id, err)
		}
		answers[id] = a
	}
	return answers, nil
}

func runScore(w io.Writer, b *bank.Bank, data []byte, lang bank.Language, premium bool) error {
	answers, err := parseAnswersFile(b, data)
	if err != nil {
		return err
	}

	sc := scoring.New(b.Assessment())
	profile := sc.CalculateProfile(answers)
	scores := sc.DimensionScores(answers)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tSCORE\tPRIORITY")
	for _, d := range bank.AllDimensions {
		level := "-"
		if d != bank.Intimacy {
			level = string(profile.Level(d))
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", b.DimensionName(d, lang), scores[d], level)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	guide := selector.Annotate(selector.New(b.Guide()).ByProfile(profile), premium)
	fmt.Fprintf(w, "\nGuide (%d questions):\n", len(guide))
	for _, e := range guide {
		if e.Locked {
			fmt.Fprintf(w, "%2d. [locked] %s\n", e.Index+1, b.DimensionName(e.Item.Dimension, lang))
			continue
		}
		fmt.Fprintf(w, "%2d. %s (%s)\n", e.Index+1, e.Item.Question.In(lang), e.Item.ID)
	}
	return nil
}
