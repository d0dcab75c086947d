package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/cc-convo/internal/open"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <target>",
		Short: "Open a session's JSONL file in $EDITOR (target: index, id, or short id)",
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
			return open.Session(session, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line number to jump to")
	return cmd
}
