// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/edl/internal/render"
)

func inspectCmd() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a summary of an EDL's events and parse diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, diags, err := loadSequence(args[0], fps)
			if err != nil {
				return err
			}

			r := render.New(os.Stdout)
			r.Sequence(seq)
			r.Diagnostics(diags)
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 25, "Frame rate used to interpret timecodes")

	return cmd
}
