// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/edl"
	"github.com/mrjoshuak/edl/internal/render"
)

func reelsCmd() *cobra.Command {
	var fps int
	var all bool

	cmd := &cobra.Command{
		Use:   "reels <file>",
		Short: "List the source reels an EDL pulls from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, _, err := loadSequence(args[0], fps)
			if err != nil {
				return err
			}

			reels := seq.Reels()
			names := make([]string, 0, len(reels))
			for name := range reels {
				if !all && edl.IsBlackReel(name) {
					continue
				}
				names = append(names, name)
			}
			sort.Strings(names)

			render.New(os.Stdout).Reels(reels, names)
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 25, "Frame rate used to interpret timecodes")
	cmd.Flags().BoolVar(&all, "all", false, "Include black/filler reels")

	return cmd
}
