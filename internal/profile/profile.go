// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package profile loads edltool's output defaults from a TOML config file.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mrjoshuak/edl"
)

// Profile holds the output defaults applied when a command flag is not set.
type Profile struct {
	Dialect   string `toml:"dialect"`
	FPS       int    `toml:"fps"`
	DropFrame bool   `toml:"drop_frame"`
	Title     string `toml:"title"`
}

var validRates = map[int]bool{24: true, 25: true, 30: true, 60: true}

// Load reads a profile from path. An empty path falls back to the default
// config location; a missing default config is not an error, a missing
// explicit one is. Values absent from the file keep their defaults.
func Load(path string) (*Profile, error) {
	p := &Profile{
		Dialect: "openshot",
		FPS:     25,
	}

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return p, nil
		}
		path = filepath.Join(home, ".config", "edltool", "config.toml")
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
		return p, nil
	}

	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile's dialect name and frame rate.
func (p *Profile) Validate() error {
	if _, err := edl.ParseDialect(p.Dialect); err != nil {
		return err
	}
	if !validRates[p.FPS] {
		return fmt.Errorf("unsupported frame rate %d (expected 24, 25, 30 or 60)", p.FPS)
	}
	return nil
}

// OutputDialect returns the profile's dialect. The profile must have passed
// Validate.
func (p *Profile) OutputDialect() edl.Dialect {
	d, _ := edl.ParseDialect(p.Dialect)
	return d
}
