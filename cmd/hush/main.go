// Command hush maintains a local block list and screens inbound calls and
// messages against it.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/hush/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
