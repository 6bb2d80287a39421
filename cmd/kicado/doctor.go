package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboone/kicado"
	"github.com/cboone/kicado/internal/appconfig"
	"github.com/cboone/kicado/internal/journal"
	"github.com/cboone/kicado/internal/uictl"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the shim, window-control binary, and journal are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := appconfig.Load(configPath)
			if err != nil {
				return err
			}

			failed := false
			if err := kicado.VerifyShim(cfg.ShimPath); err != nil {
				failed = true
				fmt.Fprintf(out, "shim: FAIL (%v)\n", err)
			} else {
				fmt.Fprintf(out, "shim: ok (%s)\n", cfg.ShimPath)
			}

			if version, err := uictl.Version(cfg.ControlBinary); err != nil {
				failed = true
				fmt.Fprintf(out, "window control: FAIL (%v)\n", err)
			} else {
				fmt.Fprintf(out, "window control: ok (%s %s)\n", cfg.ControlBinary, version)
			}

			if cfg.JournalPath == "" {
				fmt.Fprintln(out, "journal: disabled")
			} else if store, err := journal.Open(cmd.Context(), cfg.JournalPath); err != nil {
				failed = true
				fmt.Fprintf(out, "journal: FAIL (%v)\n", err)
			} else {
				store.Close()
				fmt.Fprintf(out, "journal: ok (%s)\n", cfg.JournalPath)
			}

			if failed {
				return fmt.Errorf("environment is not ready")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "configuration file path")
	return cmd
}
