package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/doctor"
)

func doctorCmd() *cobra.Command {
	var sampleFiles int
	var output string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the transcript dir, parsing, and output dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sampleFiles <= 0 {
				return fmt.Errorf("--sample-files must be > 0")
			}

			dir, err := claudeDir()
			if err != nil {
				return err
			}
			window, err := timeWindow(cmd)
			if err != nil {
				return err
			}
			outDir, err := outputDir(output)
			if err != nil {
				return err
			}

			checks := doctor.Run(doctor.Options{
				ClaudeDir:   dir,
				Window:      window,
				SampleFiles: sampleFiles,
				OutputDir:   outDir,
			})

			if global.jsonOut {
				if err := printJSON(checks); err != nil {
					return err
				}
			} else {
				fmt.Println(styleTitle.Render("Doctor"))
				for _, c := range checks {
					status := styleOK.Render("OK")
					if !c.OK {
						status = styleFail.Render("FAIL")
					}
					fmt.Printf("%s %-24s %s\n", status, c.Name, c.Details)
				}
			}

			failed := 0
			for _, c := range checks {
				if !c.OK {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("doctor found %d failing checks", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sampleFiles, "sample-files", 5, "Files to sample for the parse check")
	cmd.Flags().StringVar(&output, "output", "", "Output directory to probe (default cc-convo-exports)")
	return cmd
}
