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
	"fmt"

	"github.com/binaek/cling"

	"github.com/minbzk/regelrecht/loader"
	"github.com/minbzk/regelrecht/service"
)

func addValidateCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("validate", validateCmd).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to validate").
				AsFlag(),
			),
	)
}

type validateCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
}

// validateCmd loads a pack and registers every law with a throwaway
// Facade, surfacing any parse/schema or duplicate-version error without
// evaluating anything. References between laws are not checked.
func validateCmd(ctx context.Context, args []string) error {
	input := validateCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	pack, err := loader.LoadPack(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	facade := service.New(nil)
	for _, law := range pack.Laws {
		if err := facade.LoadLaw(law); err != nil {
			return fmt.Errorf("law %s: %w", law.ID, err)
		}
	}

	fmt.Printf("OK: %s (%d law(s) loaded)\n", pack.Manifest.Name, len(pack.Laws))
	return nil
}
