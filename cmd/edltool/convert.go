// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/edl"
	"github.com/mrjoshuak/edl/internal/profile"
)

func convertCmd() *cobra.Command {
	var (
		to          string
		fps         int
		output      string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Re-emit an EDL in another dialect",
		Long: `Parses an EDL and writes it back out in the requested dialect.
Flags override the profile config; unset flags fall back to the profile's
defaults (openshot dialect, 25 fps when no profile exists).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := profile.Load(profilePath)
			if err != nil {
				return err
			}

			dialect := prof.OutputDialect()
			if cmd.Flags().Changed("to") {
				dialect, err = edl.ParseDialect(to)
				if err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("fps") {
				fps = prof.FPS
			}

			seq, diags, err := loadSequence(args[0], fps)
			if err != nil {
				return err
			}
			for _, d := range diags {
				slog.Warn("parse", "line", d.Line, "problem", d.Message)
			}

			if seq.Title == "" {
				seq.Title = prof.Title
			}
			if prof.DropFrame {
				seq.DropFrame = true
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			encoder := edl.NewEncoder(w)
			encoder.SetDialect(dialect)
			encoder.SetRate(fps)
			if err := encoder.Encode(seq); err != nil {
				return err
			}
			for _, warn := range encoder.Warnings() {
				slog.Warn("encode", "problem", warn.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output dialect (cmx3600, cmx340, gvg, openshot)")
	cmd.Flags().IntVar(&fps, "fps", 25, "Frame rate used to interpret timecodes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Profile config file (default ~/.config/edltool/config.toml)")

	return cmd
}
