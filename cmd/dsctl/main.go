// This is the entrypoint for the dsctl binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dsctl/dsctl/cmd"
)

func main() {
	// Ctrl-C cancels the context so in-flight bulk runs can finish
	// booking their outcomes and write report files before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
