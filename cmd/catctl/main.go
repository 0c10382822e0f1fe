/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	params := catctlParams{}
	rootCmd := cobrau.PrepareRootCmd(
		"catctl",
		"Table catalog mirror utility",
		args,
		ver,
		newSnapshotCmd(&params),
		newSchemasCmd(&params),
		newTablesCmd(&params),
		newRegisterCmd(&params),
		newDropCmd(&params),
	)
	rootCmd.PersistentFlags().StringVar(&params.URL, "url", "", "Base URL of the REST catalog, e.g. https://catalog.example.com:8181")
	rootCmd.PersistentFlags().StringVar(&params.Prefix, "prefix", "", "Warehouse prefix of the versioned route")
	rootCmd.PersistentFlags().StringVar(&params.Token, "token", "", "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&params.Timeout, "timeout", 0, "Timeout of one remote call")

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
