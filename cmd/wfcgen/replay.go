package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfcgen/wfcgen/eventlog"
)

// newReplayCmd decodes a dumped event-log file (the same shape the
// /sessions/{id}/events introspection route returns) and prints one JSON
// line per entry, followed by a plain "DONE" line after any entry whose
// event kind is done; the same decode-loop-print-JSON shape as the
// teacher's wal2json tool, but over eventlog.Entry values instead of
// consensus WAL messages.
func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <path-to-events.json>",
		Short: "Print a recorded event log, one JSON entry per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			var entries []eventlog.Entry
			if err := json.NewDecoder(f).Decode(&entries); err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}

			enc := json.NewEncoder(os.Stdout)
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
				if e.Event.Kind == "done" {
					fmt.Println("DONE")
				}
			}
			return nil
		},
	}
	return cmd
}
