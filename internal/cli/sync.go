package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/syncstate"
)

// SyncMarkResult is the JSON payload of sync synced and sync conflict.
type SyncMarkResult struct {
	Number   string               `json:"number"`
	Status   blocklist.SyncStatus `json:"sync_status"`
	RemoteID string               `json:"remote_id,omitempty"`
}

// NewSyncCommand creates the sync command group, the surface used by the
// external sync collaborator.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Record remote sync results",
		Long: `Record the outcome of pushing the block list to the remote service.

Sync state never affects screening. An entry in conflict can only leave it
by being re-added.`,
	}
	cmd.AddCommand(newSyncSyncedCommand(rootOpts))
	cmd.AddCommand(newSyncConflictCommand(rootOpts))
	cmd.AddCommand(newSyncPendingCommand(rootOpts))
	cmd.AddCommand(newSyncApplyCommand(rootOpts))
	return cmd
}

func newSyncSyncedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "synced <number> <remote-id>",
		Short:         "Mark a number as confirmed by the remote service",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			number, remoteID := args[0], args[1]
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				applied, err := a.tracker.MarkSynced(cmd.Context(), number, remoteID)
				if err != nil {
					return f.Fail("sync synced", err)
				}
				if !applied {
					return f.Fail("sync synced", blocklist.NotFoundError("mark synced", number))
				}
				result := SyncMarkResult{Number: number, Status: blocklist.SyncSynced, RemoteID: remoteID}
				return f.Render(result, func(w io.Writer) {
					fmt.Fprintf(w, "%s synced as %s\n", number, remoteID)
				})
			})
		},
	}
}

func newSyncConflictCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "conflict <number>",
		Short:         "Mark a number as rejected by the remote service",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			number := args[0]
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				applied, err := a.tracker.MarkConflict(cmd.Context(), number)
				if err != nil {
					return f.Fail("sync conflict", err)
				}
				if !applied {
					return f.Fail("sync conflict", blocklist.NotFoundError("mark conflict", number))
				}
				result := SyncMarkResult{Number: number, Status: blocklist.SyncConflict}
				return f.Render(result, func(w io.Writer) {
					fmt.Fprintf(w, "%s marked conflict\n", number)
				})
			})
		},
	}
}

func newSyncPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "pending",
		Short:         "List entries not yet confirmed by the remote service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				entries, err := a.tracker.Pending(cmd.Context())
				if err != nil {
					return f.Fail("sync pending", err)
				}
				return f.Render(entries, func(w io.Writer) { writeEntries(w, entries) })
			})
		},
	}
}

func newSyncApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <snapshot-file>",
		Short: "Reconcile the block list with a remote snapshot",
		Long: `Reconcile the local block list with a snapshot of the remote list.

The snapshot is YAML (or JSON):

  entries:
    - number: "+15551234567"
      display_name: Spam Likely
      remote_id: r-1

Numbers only in the snapshot are added as synced. Pending entries found in
the snapshot are confirmed. Synced entries missing from the snapshot are
removed. Pending and conflicting entries are kept.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				snap, err := readSnapshot(args[0])
				if err != nil {
					return f.Fail("sync apply", blocklist.InvalidInputError("sync apply", err.Error()))
				}
				report, err := a.tracker.Apply(cmd.Context(), snap)
				if err != nil {
					return f.Fail("sync apply", err)
				}
				return f.Render(report, func(w io.Writer) {
					fmt.Fprintf(w, "added %d, confirmed %d, removed %d, skipped %d\n",
						len(report.Added), len(report.Confirmed), len(report.Removed), len(report.Skipped))
				})
			})
		},
	}
}

func readSnapshot(path string) (syncstate.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return syncstate.Snapshot{}, err
	}
	defer file.Close()
	return syncstate.LoadSnapshot(file)
}
