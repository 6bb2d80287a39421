package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"

	"github.com/cboone/kicado"
	"github.com/cboone/kicado/internal/appconfig"
	"github.com/cboone/kicado/internal/journal"
	"github.com/cboone/kicado/internal/uictl"
)

func newRunCmd() *cobra.Command {
	var (
		configPath   string
		editorName   string
		legacy       bool
		verbose      bool
		swaps        int
		readyTimeout time.Duration
		timelinePath string
		noJournal    bool
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Open a document, wait until the editor is idle, then quit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			cfg, err := appconfig.Load(configPath)
			if err != nil {
				return err
			}
			editor, err := parseEditor(editorName)
			if err != nil {
				return err
			}

			opts := []kicado.Option{
				kicado.WithShim(cfg.ShimPath),
				kicado.WithController(uictl.New(cfg.ControlBinary)),
				kicado.WithTimeoutScale(cfg.TimeoutScale),
				kicado.WithWaitStart(time.Duration(cfg.WaitStartSeconds) * time.Second),
				kicado.WithLegacy(legacy),
				kicado.WithVerbose(verbose),
				kicado.WithLogger(logger),
			}
			if timelinePath != "" {
				opts = append(opts, kicado.WithTimelinePath(timelinePath))
			}
			if !noJournal && cfg.JournalPath != "" {
				store, err := journal.Open(ctx, cfg.JournalPath)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, kicado.WithJournal(store))
			}

			session, err := kicado.Launch(ctx, editor, args[0], opts...)
			if err != nil {
				return err
			}
			defer session.Close()

			runErr := drive(session, swaps, readyTimeout)
			session.RecordOutcome(runErr)
			if runErr != nil {
				return runErr
			}
			logger.Info("editor run completed", "editor", editor.String(), "file", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "configuration file path")
	cmd.Flags().StringVar(&editorName, "editor", "pcb", "editor to drive: pcb or sch")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "use the KiCad 5 title and dialog conventions")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every shim event with timing")
	cmd.Flags().IntVar(&swaps, "swaps", 1, "render completions to require before idle polling")
	cmd.Flags().DurationVar(&readyTimeout, "ready-timeout", 60*time.Second, "budget for the post-load render waits")
	cmd.Flags().StringVar(&timelinePath, "timeline", "", "write the diagnostic timeline to this file")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "skip recording the session in the journal")

	return cmd
}

// drive is the whole per-run sequence: loaded, idle, exit.
func drive(session *kicado.Session, swaps int, readyTimeout time.Duration) error {
	if err := session.WaitStartup(); err != nil {
		return err
	}
	if _, err := session.WaitReady(swaps, readyTimeout, false); err != nil {
		return err
	}
	return session.ExitApplication()
}

func parseEditor(name string) (kicado.Editor, error) {
	switch name {
	case "pcb", "pcbnew":
		return kicado.PCBEditor, nil
	case "sch", "eeschema":
		return kicado.SchematicEditor, nil
	default:
		return 0, fmt.Errorf("unknown editor %q (want pcb or sch)", name)
	}
}
