package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hush/internal/blocklist"
)

// RemoveResult is the JSON payload of a successful remove.
type RemoveResult struct {
	Number  string `json:"number"`
	Removed bool   `json:"removed"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <number>",
		Short: "Block a number",
		Long: `Add a number to the block list, or refresh it if already present.

Re-adding a number replaces its display name, resets its sync state to
pending and moves it to the top of the list.

Example:
  hush add +15551234567 --name "Spam Likely"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				entry, err := a.store.Upsert(cmd.Context(), args[0], name)
				if err != nil {
					return f.Fail("add", err)
				}
				return f.Render(entry, func(w io.Writer) {
					fmt.Fprintf(w, "Blocked %s\n", describe(entry))
				})
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <number>",
		Short:         "Unblock a number",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			number := args[0]
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				removed, err := a.store.Remove(cmd.Context(), number)
				if err != nil {
					return f.Fail("remove", err)
				}
				if !removed {
					return f.Fail("remove", blocklist.NotFoundError("remove", number))
				}
				return f.Render(RemoveResult{Number: number, Removed: true}, func(w io.Writer) {
					fmt.Fprintf(w, "Unblocked %s\n", number)
				})
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blocked numbers, newest first",
		Example: `  hush list
  hush list --status conflict --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				var (
					entries []blocklist.Entry
					err     error
				)
				if status == "" {
					entries, err = a.store.List(cmd.Context())
				} else {
					s := blocklist.SyncStatus(status)
					if !s.Valid() {
						return f.Fail("list", blocklist.InvalidInputError("list",
							fmt.Sprintf("unknown status %q: must be pending, synced or conflict", status)))
					}
					entries, err = a.store.ListByStatus(cmd.Context(), s)
				}
				if err != nil {
					return f.Fail("list", err)
				}
				return f.Render(entries, func(w io.Writer) { writeEntries(w, entries) })
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only entries with this sync status")
	return cmd
}

func writeEntries(w io.Writer, entries []blocklist.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No blocked numbers.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tNAME\tSTATUS\tREMOTE ID\tBLOCKED AT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Number, e.DisplayName, e.SyncStatus, e.RemoteID, formatMillis(e.BlockedAt))
	}
	tw.Flush()
}

func describe(e blocklist.Entry) string {
	if e.DisplayName == "" {
		return e.Number
	}
	return fmt.Sprintf("%s (%s)", e.Number, e.DisplayName)
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
