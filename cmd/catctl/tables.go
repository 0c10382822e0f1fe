/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/catalogmirror/pkg/qnames"
)

func newTablesCmd(params *catctlParams) *cobra.Command {
	return &cobra.Command{
		Use:   "tables namespace",
		Short: "List tables of the namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := qnames.Parse(args[0])
			if err != nil {
				return err
			}

			session, err := openMirror(cmd.Context(), params)
			if err != nil {
				return err
			}
			defer session.close()

			names, err := session.m.TableNames(ns)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
