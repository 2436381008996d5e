package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CheckResult is the JSON payload of check.
type CheckResult struct {
	Number   string `json:"number"`
	Decision string `json:"decision"`
}

// CallScreenResult mirrors the OS call-screening response.
type CallScreenResult struct {
	Number string `json:"number"`
	Block  bool   `json:"block"`
}

// MessageScreenResult mirrors the OS SMS-delivery response.
type MessageScreenResult struct {
	Number string `json:"number"`
	Abort  bool   `json:"abort"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <number>",
		Short: "Show whether a number would be blocked",
		Long: `Decide whether a contact from number would be blocked, without
recording anything. Storage failures are reported as "allow".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				d := a.engine.Decide(cmd.Context(), args[0])
				return f.Render(CheckResult{Number: args[0], Decision: d.String()}, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s\n", args[0], d)
				})
			})
		},
	}
}

// NewScreenCommand creates the screen command group used by the OS hooks.
func NewScreenCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen an inbound call or message",
		Long: `Entry points for the OS call-screening and SMS-delivery hooks.

A blocked contact is recorded in the audit log. Screening always fails
open: if the block list cannot be read, the contact is allowed.`,
	}
	cmd.AddCommand(newScreenCallCommand(rootOpts))
	cmd.AddCommand(newScreenSMSCommand(rootOpts))
	return cmd
}

func newScreenCallCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "call <number>",
		Short:         "Screen an inbound call",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				resp := a.engine.ScreenCall(cmd.Context(), args[0])
				return f.Render(CallScreenResult{Number: args[0], Block: resp.Block}, func(w io.Writer) {
					fmt.Fprintln(w, verdict(resp.Block))
				})
			})
		},
	}
}

func newScreenSMSCommand(rootOpts *RootOptions) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:           "sms <number>",
		Short:         "Screen an inbound SMS",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				resp := a.engine.ScreenMessage(cmd.Context(), args[0], body)
				return f.Render(MessageScreenResult{Number: args[0], Abort: resp.Abort}, func(w io.Writer) {
					fmt.Fprintln(w, verdict(resp.Abort))
				})
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "message body")
	return cmd
}

func verdict(block bool) string {
	if block {
		return "block"
	}
	return "allow"
}
