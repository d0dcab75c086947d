package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/search"
)

func searchCmd() *cobra.Command {
	var mode, speaker string
	var caseSensitive bool
	var maxResults, contextChars int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search conversation text across all sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := search.Options{
				Query:         args[0],
				CaseSensitive: caseSensitive,
				MaxResults:    maxResults,
				ContextChars:  contextChars,
			}
			switch search.Mode(mode) {
			case search.ModeSmart, search.ModeExact, search.ModeRegex:
				opts.Mode = search.Mode(mode)
			default:
				return fmt.Errorf("unknown search mode %q (smart, exact, regex)", mode)
			}
			switch search.Speaker(speaker) {
			case search.SpeakerUser, search.SpeakerAssistant, search.SpeakerBoth:
				opts.Speaker = search.Speaker(speaker)
			default:
				return fmt.Errorf("unknown speaker filter %q (user, assistant, both)", speaker)
			}

			sessions, err := discoverSessions(cmd)
			if err != nil {
				return err
			}
			hits, err := search.Run(sessions, opts)
			if err != nil {
				return err
			}

			if global.jsonOut {
				return printJSON(hits)
			}

			fmt.Println(styleTitle.Render(fmt.Sprintf("Found %d result(s).", len(hits))))
			for i, hit := range hits {
				ts := hit.Timestamp
				if ts == "" {
					ts = "-"
				}
				fmt.Println()
				fmt.Printf("%s %s %s\n",
					styleBold.Render(fmt.Sprintf("#%d", i+1)),
					styleAccent.Render(hit.SessionID),
					styleDim.Render("("+hit.Project+")"))
				fmt.Printf("%s %s %.2f\n",
					styleDim.Render(ts),
					styleBold.Render("["+hit.Speaker+"]"),
					hit.Relevance)
				fmt.Println(hit.Preview)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "smart", "Match mode: smart, exact, regex")
	cmd.Flags().StringVar(&speaker, "speaker", "both", "Speaker filter: user, assistant, both")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case-sensitively")
	cmd.Flags().IntVar(&maxResults, "max-results", 30, "Max hits to return")
	cmd.Flags().IntVar(&contextChars, "context-chars", 150, "Context window around matches, in characters")
	return cmd
}
