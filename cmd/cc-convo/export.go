package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/export"
	"github.com/Zuo-Peng/cc-convo/internal/parse"
)

func exportCmd() *cobra.Command {
	var sel export.Selection
	var format, output string
	var detailed, singleFile, yes bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as markdown, JSON, or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			outDir, err := outputDir(output)
			if err != nil {
				return err
			}

			sessions, err := discoverSessions(cmd)
			if err != nil {
				return err
			}
			selected, err := export.Select(sessions, sel)
			if err != nil {
				return err
			}

			if sel.All && !yes && !global.jsonOut {
				if !confirm(fmt.Sprintf("Export all %d sessions?", len(selected))) {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir %s: %w", outDir, err)
			}

			showProgress := !global.jsonOut && len(selected) > 1

			var outputFiles []string
			var bundled []export.Document
			totalSkipped := 0

			for i := range selected {
				session := &selected[i]
				outcome, err := parse.ParseSession(session.Path, detailed)
				if err != nil {
					return err
				}
				totalSkipped += outcome.Skipped

				doc := export.Build(session, outcome.Events)
				if singleFile {
					bundled = append(bundled, doc)
				} else {
					path, err := export.WriteSession(outDir, doc, exportFormat)
					if err != nil {
						return err
					}
					outputFiles = append(outputFiles, path)
				}
				if showProgress {
					fmt.Fprintf(os.Stderr, "  [%d/%d] %s\n", i+1, len(selected), session.ShortID)
				}
			}

			if singleFile {
				path, err := export.WriteBundle(outDir, bundled, exportFormat)
				if err != nil {
					return err
				}
				outputFiles = append(outputFiles, path)
			}

			if global.jsonOut {
				return printJSON(map[string]interface{}{
					"exported_sessions": len(selected),
					"output_files":      outputFiles,
					"parse_errors":      totalSkipped,
					"format":            string(exportFormat),
					"detailed":          detailed,
					"single_file":       singleFile,
				})
			}

			fmt.Println(styleSuccess.Render(fmt.Sprintf("Exported %d session(s).", len(selected))))
			fmt.Println("Output:")
			for _, p := range outputFiles {
				fmt.Printf("  %s\n", p)
			}
			warnSkipped(totalSkipped)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sel.Sessions, "session", nil, "Session id or short id to export (repeatable)")
	cmd.Flags().IntSliceVar(&sel.Indices, "index", nil, "1-based session index to export (repeatable)")
	cmd.Flags().IntVar(&sel.Recent, "recent", 0, "Export the N most recent sessions")
	cmd.Flags().BoolVar(&sel.All, "all", false, "Export every discovered session")
	cmd.Flags().StringVar(&sel.Search, "search", "", "Export sessions matching this query")
	cmd.Flags().StringVar(&format, "format", "markdown", "Export format: markdown, json, html")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (default cc-convo-exports)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include thinking/tool blocks and operational records")
	cmd.Flags().BoolVar(&singleFile, "single-file", false, "Bundle everything into one file")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the --all confirmation prompt")
	return cmd
}

// confirm asks a y/N question on the terminal. Anything but y/yes declines.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
