package main

import (
	"fmt"
	"os"

	"github.com/buidlhub/buidl-cli/internal/cli"
	"github.com/buidlhub/buidl-cli/internal/cli/render"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err))
		os.Exit(cli.ExitCode(err))
	}
}
