// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/edl"
	"github.com/mrjoshuak/edl/internal/render"
)

func checkCmd() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report record-range overlaps, gaps and parse problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, diags, err := loadSequence(args[0], fps)
			if err != nil {
				return err
			}

			var problems []string
			for _, ev := range seq.Events {
				if seq.OverlapsPrior(ev) {
					problems = append(problems,
						fmt.Sprintf("event %s: record range %s - %s overlaps an earlier event",
							ev.Name(), ev.RecordIn, ev.RecordOut))
				}
			}
			// Gaps are a per-track property: record time covered on one
			// track is not a hole in another.
			for _, track := range seq.Tracks() {
				for _, gap := range edl.RecordGaps(track.Events) {
					problems = append(problems,
						fmt.Sprintf("track %s: %d frames of unfilled record time at frame %d",
							track.Name, gap.Duration(), gap.Start))
				}
			}

			r := render.New(os.Stdout)
			r.Problems(problems)
			r.Diagnostics(diags)

			if n := len(problems) + len(diags); n > 0 {
				return fmt.Errorf("%d problems found", n)
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 25, "Frame rate used to interpret timecodes")

	return cmd
}
