package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/parse"
	"github.com/Zuo-Peng/cc-convo/internal/render"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and inspect discovered sessions",
	}
	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsShowCmd())
	return cmd
}

// Kept for muscle memory from earlier releases.
func hiddenListCmd() *cobra.Command {
	cmd := sessionsListCmd()
	cmd.Hidden = true
	return cmd
}

func hiddenViewCmd() *cobra.Command {
	cmd := sessionsShowCmd()
	cmd.Use = "view <target>"
	cmd.Hidden = true
	return cmd
}

type sessionSummary struct {
	Session scan.Session `json:"session"`
	parse.Summary
}

func sessionsListCmd() *cobra.Command {
	var limit int
	var project string
	var withPreview bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be > 0")
			}

			sessions, err := discoverSessions(cmd)
			if err != nil {
				return err
			}
			if project != "" {
				needle := strings.ToLower(project)
				var kept []scan.Session
				for _, s := range sessions {
					if strings.Contains(strings.ToLower(s.Project), needle) ||
						strings.Contains(strings.ToLower(s.Path), needle) {
						kept = append(kept, s)
					}
				}
				sessions = kept
			}
			if len(sessions) > limit {
				sessions = sessions[:limit]
			}

			summaries := make([]sessionSummary, 0, len(sessions))
			for _, s := range sessions {
				sum, err := parse.SummarizeFile(s.Path, withPreview)
				if err != nil {
					return err
				}
				summaries = append(summaries, sessionSummary{Session: s, Summary: sum})
			}

			if global.jsonOut {
				return printJSON(summaries)
			}
			printSessionsTable(summaries, withPreview)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max sessions to list")
	cmd.Flags().StringVar(&project, "project", "", "Filter by project name/path substring")
	cmd.Flags().BoolVar(&withPreview, "with-preview", false, "Include a first-message preview")
	return cmd
}

func printSessionsTable(items []sessionSummary, withPreview bool) {
	fmt.Println(styleTitle.Render("Sessions"))
	if len(items) == 0 {
		fmt.Println("No sessions found.")
		return
	}
	if withPreview {
		fmt.Printf("%-5s %-10s %-36s %-26s %-20s %8s %6s %6s %6s  %s\n",
			"Idx", "ShortId", "SessionId", "Project", "Modified", "SizeKB", "User", "Asst", "Other", "Preview")
	} else {
		fmt.Printf("%-5s %-10s %-36s %-26s %-20s %8s %6s %6s %6s\n",
			"Idx", "ShortId", "SessionId", "Project", "Modified", "SizeKB", "User", "Asst", "Other")
	}
	for _, it := range items {
		s := it.Session
		if withPreview {
			preview := it.Preview
			if preview == "" {
				preview = "-"
			}
			fmt.Printf("%-5d %-10s %-36s %-26s %-20s %8.1f %6d %6d %6d  %s\n",
				s.Index, s.ShortID, s.ID, parse.Ellipsize(s.Project, 26), s.ModifiedISO,
				float64(s.SizeBytes)/1024.0, it.UserMessages, it.AssistantMessages, it.OtherRecords, preview)
		} else {
			fmt.Printf("%-5d %-10s %-36s %-26s %-20s %8.1f %6d %6d %6d\n",
				s.Index, s.ShortID, s.ID, parse.Ellipsize(s.Project, 26), s.ModifiedISO,
				float64(s.SizeBytes)/1024.0, it.UserMessages, it.AssistantMessages, it.OtherRecords)
		}
	}
}

func sessionsShowCmd() *cobra.Command {
	var detailed, raw bool
	var maxLines int

	cmd := &cobra.Command{
		Use:   "show <target>",
		Short: "Show one session's conversation (target: index, id, or short id)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := discoverSessions(cmd)
			if err != nil {
				return err
			}
			session, err := scan.Resolve(sessions, args[0])
			if err != nil {
				return err
			}

			if raw {
				return showRaw(session)
			}

			outcome, err := parse.ParseSession(session.Path, detailed)
			if err != nil {
				return err
			}
			events := outcome.Events
			if maxLines > 0 && len(events) > maxLines {
				events = events[:maxLines]
			}

			if global.jsonOut {
				return printJSON(map[string]interface{}{
					"session":      session,
					"parse_errors": outcome.Skipped,
					"events":       events,
				})
			}

			content, _ := render.Conversation(session, events, render.Options{
				Color: global.colorEnabled,
			})
			fmt.Print(content)
			warnSkipped(outcome.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include thinking/tool blocks and operational records")
	cmd.Flags().IntVar(&maxLines, "max-lines", 0, "Limit events shown (0 = all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print source JSONL lines verbatim")
	return cmd
}

func showRaw(session *scan.Session) error {
	f, err := os.Open(session.Path)
	if err != nil {
		return fmt.Errorf("open session %s: %w", session.Path, err)
	}
	defer f.Close()

	var records []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		records = append(records, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session %s: %w", session.Path, err)
	}

	if global.jsonOut {
		return printJSON(map[string]interface{}{
			"session": session,
			"records": records,
		})
	}
	fmt.Println(styleTitle.Render("Session " + session.ID))
	for _, r := range records {
		fmt.Println(r)
	}
	return nil
}
