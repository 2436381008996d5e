package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/store"
)

// NewEventsCommand creates the events command group for reviewing the
// audit log of blocked contacts.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	filter := &store.EventFilter{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Review blocked calls and messages, newest first",
	}
	cmd.PersistentFlags().StringVar(&filter.Number, "number", "", "only events from this number")
	cmd.PersistentFlags().IntVar(&filter.Limit, "limit", 0, "maximum number of events (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:           "calls",
		Short:         "List blocked calls",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				events, err := a.store.ListCallEvents(cmd.Context(), *filter)
				if err != nil {
					return f.Fail("events calls", err)
				}
				return f.Render(events, func(w io.Writer) { writeCallEvents(w, events) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "messages",
		Short:         "List blocked messages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				events, err := a.store.ListMessageEvents(cmd.Context(), *filter)
				if err != nil {
					return f.Fail("events messages", err)
				}
				return f.Render(events, func(w io.Writer) { writeMessageEvents(w, events) })
			})
		},
	})

	return cmd
}

func writeCallEvents(w io.Writer, events []blocklist.CallEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No blocked calls.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCKED AT\tNUMBER")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\n", formatMillis(e.BlockedAt), e.Number)
	}
	tw.Flush()
}

func writeMessageEvents(w io.Writer, events []blocklist.MessageEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No blocked messages.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCKED AT\tNUMBER\tPREVIEW")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", formatMillis(e.BlockedAt), e.Number, e.MessagePreview)
	}
	tw.Flush()
}
