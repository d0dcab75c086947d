package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/stats"
)

func statsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate record, content-block, and model frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top <= 0 {
				return fmt.Errorf("--top must be > 0")
			}

			sessions, err := discoverSessions(cmd)
			if err != nil {
				return err
			}
			report, err := stats.Aggregate(sessions, top)
			if err != nil {
				return err
			}

			if global.jsonOut {
				return printJSON(report)
			}

			fmt.Println(styleTitle.Render("Corpus stats"))
			fmt.Printf("Sessions: %d\n", report.Sessions)
			fmt.Printf("Records: %d\n", report.TotalRecords)
			fmt.Printf("Parse errors: %d\n", report.ParseErrors)
			fmt.Println()
			printRankedTable("Top record types", report.RecordTypes)
			fmt.Println()
			printRankedTable("Top content block types", report.ContentBlockTypes)
			fmt.Println()
			printRankedTable("Top models", report.Models)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "Entries per frequency table")
	return cmd
}

func printRankedTable(title string, items []stats.Count) {
	fmt.Println(styleBold.Render(title))
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, it := range items {
		fmt.Printf("  %7d  %s\n", it.Count, it.Name)
	}
}
