// SPDX-License-Identifier: Apache-2.0
//
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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/binaek/cling"

	"github.com/minbzk/regelrecht/loader"
	"github.com/minbzk/regelrecht/service"
	"github.com/minbzk/regelrecht/value"
)

func addEvalCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("eval", evalCmd).
			WithArgument(cling.NewStringCmdInput("law-id").
				WithDescription("Law to evaluate").
				AsArgument(),
			).
			WithArgument(cling.NewStringCmdInput("output").
				WithDescription("Output to compute").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to load").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("date").
				WithDefault("").
				WithDescription("Reference date (YYYY-MM-DD); defaults to today").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("format").
				WithDefault("table").
				WithValidator(cling.NewEnumValidator("table", "json")).
				WithDescription("Output format to use. One of: table, json").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("fact-file").
				WithDefault("").
				WithDescription("File to load parameters from").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("parameters").
				WithDefault("{}").
				WithDescription("Parameters to evaluate with, as a JSON object").
				AsFlag(),
			),
	)
}

type evalCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	LawID        string `cling-name:"law-id"`
	Output       string `cling-name:"output"`
	Date         string `cling-name:"date"`
	Parameters   string `cling-name:"parameters"`
	FactFile     string `cling-name:"fact-file"`
	Format       string `cling-name:"format"`
}

func evalCmd(ctx context.Context, args []string) error {
	input := evalCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	fileParams := make(map[string]any)
	if input.FactFile != "" {
		content, err := os.ReadFile(input.FactFile)
		if err != nil {
			return err
		}
		if err := json.NewDecoder(bytes.NewReader(content)).Decode(&fileParams); err != nil {
			return err
		}
	}

	var flagParams map[string]any
	if err := json.NewDecoder(bytes.NewReader([]byte(input.Parameters))).Decode(&flagParams); err != nil {
		return err
	}

	merged := make(map[string]any)
	maps.Copy(merged, fileParams)
	maps.Copy(merged, flagParams)

	dateStr := input.Date
	if dateStr == "" {
		dateStr = time.Now().UTC().Format("2006-01-02")
	}
	referenceDate, err := value.ParseDate(dateStr)
	if err != nil {
		return err
	}

	pack, err := loader.LoadPack(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	facade := service.New(nil)
	for _, law := range pack.Laws {
		if err := facade.LoadLaw(law); err != nil {
			return err
		}
	}

	types, err := facade.ParameterTypes(input.LawID, input.Output, referenceDate)
	if err != nil {
		return err
	}
	parameters, err := value.FromAnyMap(merged, types)
	if err != nil {
		return err
	}

	result, err := facade.Evaluate(ctx, input.LawID, input.Output, referenceDate, parameters)
	if err != nil {
		return err
	}

	if input.Format == "json" {
		return formatResultJSON(result)
	}
	formatResultTable(input.LawID, input.Output, result)
	return nil
}

func formatResultJSON(result *service.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Outputs         map[string]any `json:"outputs"`
		RequirementsMet bool           `json:"requirements_met"`
		CorrelationID   string         `json:"correlation_id"`
	}{
		Outputs:         value.ToAnyMap(result.Outputs),
		RequirementsMet: result.RequirementsMet,
		CorrelationID:   result.CorrelationID,
	})
}

func formatResultTable(lawID, output string, result *service.Result) {
	fmt.Printf("Law:    %s\n", lawID)
	fmt.Printf("Output: %s\n", output)
	fmt.Println()
	fmt.Printf("Requirements met: %s\n", formatBool(result.RequirementsMet))
	fmt.Println()
	fmt.Printf("Values:\n")
	for name, v := range result.Outputs {
		fmt.Printf("  %s: %v\n", name, v)
	}
	fmt.Println()
	fmt.Printf("Correlation ID: %s\n", result.CorrelationID)
}

func formatBool(b bool) string {
	if b {
		return "✓ yes"
	}
	return "⨯ no"
}
