/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(params *catctlParams) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Mirror the catalog and print namespaces, tables and their stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openMirror(cmd.Context(), params)
			if err != nil {
				return err
			}
			defer session.close()

			for _, ns := range session.m.SchemaNames() {
				fmt.Println(ns)
				names, err := session.m.TableNames(ns)
				if err != nil {
					return err
				}
				for _, name := range names {
					handle, ok := session.m.Table(name)
					if !ok {
						// notest
						continue
					}
					stats := handle.Stats()
					exactMark := "~"
					if stats.Exact {
						exactMark = "="
					}
					fmt.Printf("  %-32s rows%s%-12d size%s%-14d %s\n",
						name.Entity(), exactMark, stats.NumRows, exactMark, stats.SizeBytes, handle.MetadataLocation())
				}
			}
			return nil
		},
	}
}
