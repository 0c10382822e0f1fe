/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemasCmd(params *catctlParams) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List mirrored namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openMirror(cmd.Context(), params)
			if err != nil {
				return err
			}
			defer session.close()

			for _, ns := range session.m.SchemaNames() {
				fmt.Println(ns)
			}
			return nil
		},
	}
}
