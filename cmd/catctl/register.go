/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

func newRegisterCmd(params *catctlParams) *cobra.Command {
	return &cobra.Command{
		Use:   "register name metadata-location",
		Short: "Register a table and propagate it to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := qnames.Parse(args[0])
			if err != nil {
				return err
			}
			metadataLocation := args[1]

			session, err := openMirror(cmd.Context(), params)
			if err != nil {
				return err
			}

			_, err = session.m.RegisterTable(name, icatalog.NewTableHandle(name, metadataLocation, icatalog.TableStats{}))
			if err != nil {
				session.close()
				return err
			}
			if err := session.close(); err != nil {
				return fmt.Errorf("%s is registered locally, propagation failed: %w", name, err)
			}
			fmt.Println(name, "registered")
			return nil
		},
	}
}
