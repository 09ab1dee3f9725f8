// SPDX-License-Identifier: Apache-2.0

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

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/binaek/cling"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/minbzk/regelrecht/config"
	"github.com/minbzk/regelrecht/loader"
)

func addInitCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("init", initCmd).
			WithFlag(cling.NewStringCmdInput("directory").WithDefault(".").WithDescription("The directory to initialize in MUST be empty.").AsFlag()).
			WithArgument(cling.NewStringCmdInput("name").WithDescription("The name of the pack.").AsArgument()),
	)
}

type initCmdArgs struct {
	Directory string `cling-name:"directory"`
	Name      string `cling-name:"name"`
}

func initCmd(ctx context.Context, args []string) error {
	input := initCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	manifest := config.Manifest{
		SchemaVersion: "1",
		Name:          input.Name,
		Version:       "0.1.0",
		Engines:       config.Engines{Regelrecht: ">=" + config.EngineVersion},
	}

	stat, err := os.Stat(input.Directory)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return errors.New("directory is not a directory")
	}

	entries, err := os.ReadDir(input.Directory)
	if err != nil {
		return errors.Wrapf(err, "could not read directory")
	}
	if len(entries) > 0 {
		return errors.New("directory is not empty - please choose a different directory")
	}

	f, err := os.OpenFile(filepath.Join(input.Directory, loader.ManifestFileName), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "could not create pack manifest")
	}
	defer func() { _ = f.Close() }()

	encoder := toml.NewEncoder(f)
	encoder.SetTablesInline(false)
	if err := encoder.Encode(manifest); err != nil {
		return errors.Wrapf(err, "could not encode pack manifest")
	}

	return os.WriteFile(filepath.Join(input.Directory, "example.law.yaml"), []byte(exampleLawYAML), 0o644)
}

const exampleLawYAML = `id: example_wet
regulatory_layer: WET
valid_from: 2024-01-01
articles:
  - number: "1"
    machine_readable:
      definitions:
        threshold: 1000
      execution:
        parameters:
          - name: income
            value_type: float
            required: true
        outputs: [eligible]
        actions:
          - output: eligible
            value:
              op: GREATER_THAN_OR_EQUAL
              subject: {op: REF, name: income}
              against: {op: REF, name: threshold}
`
