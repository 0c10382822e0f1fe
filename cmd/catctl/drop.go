/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/catalogmirror/pkg/qnames"
)

func newDropCmd(params *catctlParams) *cobra.Command {
	return &cobra.Command{
		Use:   "drop name",
		Short: "Deregister a table and propagate the drop to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := qnames.Parse(args[0])
			if err != nil {
				return err
			}

			session, err := openMirror(cmd.Context(), params)
			if err != nil {
				return err
			}

			if _, err := session.m.DeregisterTable(name); err != nil {
				session.close()
				return err
			}
			if err := session.close(); err != nil {
				return fmt.Errorf("%s is deregistered locally, propagation failed: %w", name, err)
			}
			fmt.Println(name, "dropped")
			return nil
		},
	}
}
