package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cboone/kicado/internal/appconfig"
	"github.com/cboone/kicado/internal/journal"
)

func newSessionsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded automation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(configPath, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range sessions {
				outcome := s.Outcome
				if outcome == "" {
					outcome = "ok"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-9s  %-19s  %s\n",
					s.ID, s.StartedAt.Local().Format(time.DateTime), s.Editor, outcome, s.InputFile)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the recorded timeline of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(configPath, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Entries(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}

	cmd.AddCommand(show)
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path")
	return cmd
}

func openJournal(configPath string, cmd *cobra.Command) (*journal.Store, error) {
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.JournalPath == "" {
		return nil, fmt.Errorf("no journal path configured")
	}
	return journal.Open(cmd.Context(), cfg.JournalPath)
}
