// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config is the shape of a regelrecht pack manifest
// (regelrecht.pack.toml): the metadata and engine-version constraint a
// directory of law YAML files is loaded under.
package config

import (
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// EngineVersion is this build's engine version, checked against a pack's
// Engines.Regelrecht constraint before its laws are registered.
const EngineVersion = "1.0.0"

// Manifest is a regelrecht.pack.toml document.
type Manifest struct {
	SchemaVersion string            `toml:"schema_version"`
	Name          string            `toml:"name"`
	Version       string            `toml:"version,omitempty"`
	Description   string            `toml:"description,omitempty"`
	License       string            `toml:"license,omitempty"`
	Authors       map[string]string `toml:"authors,omitempty"`
	Engines       Engines           `toml:"engines"`
	Metadata      map[string]any    `toml:"metadata,omitempty"`

	// Location is the directory the manifest was loaded from; set by Load,
	// not part of the TOML document itself.
	Location string `toml:"-"`
}

// Engines names the semver constraint a pack requires of the engine.
type Engines struct {
	Regelrecht string `toml:"regelrecht"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	return &m, nil
}

// CheckEngineVersion verifies engineVersion satisfies m's
// engines.regelrecht semver constraint.
func (m *Manifest) CheckEngineVersion(engineVersion string) error {
	if m.Engines.Regelrecht == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Engines.Regelrecht)
	if err != nil {
		return errors.Wrapf(err, "pack %s: invalid engine constraint %q", m.Name, m.Engines.Regelrecht)
	}
	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid engine version %q", engineVersion)
	}
	if !constraint.Check(v) {
		return errors.Errorf("pack %s requires regelrecht %s, running %s", m.Name, m.Engines.Regelrecht, engineVersion)
	}
	return nil
}
