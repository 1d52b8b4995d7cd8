// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/edl"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "edltool",
		Short:   "Inspect, convert and validate CMX-family edit decision lists",
		Version: version,
	}

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(reelsCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSequence decodes an EDL file, or stdin when path is "-".
func loadSequence(path string, fps int) (*edl.EventSequence, []edl.Diagnostic, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
	}

	decoder := edl.NewDecoder(f)
	decoder.SetRate(fps)
	seq, err := decoder.Decode()
	if err != nil {
		return nil, decoder.Diagnostics(), fmt.Errorf("parse %s: %w", path, err)
	}
	return seq, decoder.Diagnostics(), nil
}
