// Command ponto is the employee time clock ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/ponto/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		// Command failures were already reported by the output formatter;
		// flag and argument errors from cobra were not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Reported {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
