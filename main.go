// Package main provides the entry point for the wire-csv CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/wire-csv/cmd/batch"
	"fjacquet/wire-csv/cmd/convert"
	"fjacquet/wire-csv/cmd/decompose"
	"fjacquet/wire-csv/cmd/root"
	"fjacquet/wire-csv/cmd/rules"
	"fjacquet/wire-csv/internal/config"
)

func init() {
	// 1. Load .env silently so WIRE_* variables reach the configuration
	_, _ = config.LoadEnv()

	// 2. Initialize root command flags
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(decompose.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
