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

// Package loader reads a regelrecht pack off disk: a manifest
// (regelrecht.pack.toml) plus a tree of law YAML files, and builds the
// lawast.Law values a resolver.Resolver is loaded with.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

type lawDTO struct {
	ID              string            `yaml:"id"`
	RegulatoryLayer string            `yaml:"regulatory_layer"`
	ValidFrom       string            `yaml:"valid_from,omitempty"`
	BWBID           string            `yaml:"bwb_id,omitempty"`
	LegalBasis      []legalBasisDTO   `yaml:"legal_basis,omitempty"`
	KeyAttributes   map[string]string `yaml:"key_attributes,omitempty"`
	Articles        []articleDTO      `yaml:"articles"`
}

type legalBasisDTO struct {
	LawID   string `yaml:"law_id"`
	Article string `yaml:"article"`
}

type articleDTO struct {
	Number          string              `yaml:"number"`
	MachineReadable *machineReadableDTO `yaml:"machine_readable,omitempty"`
}

type machineReadableDTO struct {
	Definitions map[string]any `yaml:"definitions,omitempty"`
	Execution   executionDTO   `yaml:"execution"`
}

type executionDTO struct {
	Parameters   []parameterDTO `yaml:"parameters,omitempty"`
	Inputs       []inputDTO     `yaml:"inputs,omitempty"`
	Outputs      []string       `yaml:"outputs"`
	Actions      []actionDTO    `yaml:"actions"`
	Requirements *opDTO         `yaml:"requirements,omitempty"`
	Defaults     []actionDTO    `yaml:"defaults,omitempty"`
}

type parameterDTO struct {
	Name      string `yaml:"name"`
	ValueType string `yaml:"value_type"`
	Required  bool   `yaml:"required,omitempty"`
}

type inputDTO struct {
	Name      string     `yaml:"name"`
	ValueType string     `yaml:"value_type"`
	Required  bool       `yaml:"required,omitempty"`
	Source    *sourceDTO `yaml:"source,omitempty"`
}

type sourceDTO struct {
	Kind       string            `yaml:"kind"`
	Regulation string            `yaml:"regulation,omitempty"`
	Output     string            `yaml:"output,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`

	DelegationLawID   string            `yaml:"delegation_law_id,omitempty"`
	DelegationArticle string            `yaml:"delegation_article,omitempty"`
	KeyedBy           map[string]string `yaml:"keyed_by,omitempty"`

	// SourceDataRegistry fields: which registered datasource.Source to
	// query, and which resolvable name holds the lookup key. Both default
	// ("default", "bsn") when omitted, for backward compatibility with
	// laws that predate these fields.
	SourceName   string `yaml:"source_name,omitempty"`
	KeyParameter string `yaml:"key_parameter,omitempty"`
}

type actionDTO struct {
	Output             string        `yaml:"output"`
	Value              opDTO         `yaml:"value"`
	CompetentAuthority string        `yaml:"competent_authority,omitempty"`
	TypeSpec           *typeSpecDTO  `yaml:"type_spec,omitempty"`
}

type typeSpecDTO struct {
	Unit      string  `yaml:"unit,omitempty"`
	Precision *int    `yaml:"precision,omitempty"`
	Min       *string `yaml:"min,omitempty"`
	Max       *string `yaml:"max,omitempty"`
	Bounds    string  `yaml:"bounds,omitempty"` // "clamp" (default) or "reject"
}

// ParseLaw decodes one law YAML document into a lawast.Law.
func ParseLaw(data []byte) (*lawast.Law, error) {
	var dto lawDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, xerr.ErrSchema("parse law yaml: %v", err)
	}
	return dto.build()
}

func (d lawDTO) build() (*lawast.Law, error) {
	if d.ID == "" {
		return nil, xerr.ErrSchema("law missing id")
	}

	var validFrom *value.Date
	if d.ValidFrom != "" {
		dt, err := parseDate(d.ValidFrom)
		if err != nil {
			return nil, err
		}
		validFrom = &dt
	}

	legalBasis := make([]lawast.LegalBasis, len(d.LegalBasis))
	for i, lb := range d.LegalBasis {
		legalBasis[i] = lawast.LegalBasis{LawID: lb.LawID, Article: lb.Article}
	}

	articles := make([]*lawast.Article, len(d.Articles))
	for i, a := range d.Articles {
		article, err := a.build()
		if err != nil {
			return nil, fmt.Errorf("law %s article %s: %w", d.ID, a.Number, err)
		}
		articles[i] = article
	}

	return &lawast.Law{
		ID:              d.ID,
		RegulatoryLayer: lawast.RegulatoryLayer(strings.ToUpper(d.RegulatoryLayer)),
		ValidFrom:       validFrom,
		BWBID:           d.BWBID,
		LegalBasis:      legalBasis,
		KeyAttributes:   d.KeyAttributes,
		Articles:        articles,
	}, nil
}

func (a articleDTO) build() (*lawast.Article, error) {
	article := &lawast.Article{Number: a.Number}
	if a.MachineReadable == nil {
		return article, nil
	}
	mr, err := a.MachineReadable.build()
	if err != nil {
		return nil, err
	}
	article.MachineReadable = mr
	return article, nil
}

func (m machineReadableDTO) build() (*lawast.MachineReadable, error) {
	definitions := make(map[string]value.Value, len(m.Definitions))
	for k, raw := range m.Definitions {
		v, err := fromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", k, err)
		}
		definitions[k] = v
	}

	exec, err := m.Execution.build()
	if err != nil {
		return nil, err
	}

	return &lawast.MachineReadable{Definitions: definitions, Execution: exec}, nil
}

func (e executionDTO) build() (lawast.Execution, error) {
	params := make([]lawast.Parameter, len(e.Parameters))
	for i, p := range e.Parameters {
		kind, err := parseKind(p.ValueType)
		if err != nil {
			return lawast.Execution{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params[i] = lawast.Parameter{Name: p.Name, ValueType: kind, Required: p.Required}
	}

	inputs := make([]lawast.InputField, len(e.Inputs))
	for i, in := range e.Inputs {
		kind, err := parseKind(in.ValueType)
		if err != nil {
			return lawast.Execution{}, fmt.Errorf("input %s: %w", in.Name, err)
		}
		field := lawast.InputField{Name: in.Name, ValueType: kind, Required: in.Required}
		if in.Source != nil {
			src, err := in.Source.build()
			if err != nil {
				return lawast.Execution{}, fmt.Errorf("input %s source: %w", in.Name, err)
			}
			field.Source = src
		}
		inputs[i] = field
	}

	actions := make([]lawast.Action, len(e.Actions))
	for i, a := range e.Actions {
		action, err := a.build()
		if err != nil {
			return lawast.Execution{}, err
		}
		actions[i] = action
	}

	defaults := make([]lawast.Action, len(e.Defaults))
	for i, a := range e.Defaults {
		action, err := a.build()
		if err != nil {
			return lawast.Execution{}, fmt.Errorf("default: %w", err)
		}
		defaults[i] = action
	}

	requirements, err := e.Requirements.build()
	if err != nil {
		return lawast.Execution{}, fmt.Errorf("requirements: %w", err)
	}

	return lawast.Execution{
		Parameters:   params,
		Inputs:       inputs,
		Outputs:      e.Outputs,
		Actions:      actions,
		Requirements: requirements,
		Defaults:     defaults,
	}, nil
}

func (s sourceDTO) build() (*lawast.Source, error) {
	switch strings.ToLower(s.Kind) {
	case "", "data_registry":
		return &lawast.Source{
			Kind:         lawast.SourceDataRegistry,
			SourceName:   s.SourceName,
			KeyParameter: s.KeyParameter,
		}, nil
	case "external":
		return &lawast.Source{
			Kind:       lawast.SourceExternal,
			Regulation: s.Regulation,
			Output:     s.Output,
			Parameters: s.Parameters,
		}, nil
	case "delegation":
		return &lawast.Source{
			Kind:              lawast.SourceDelegation,
			DelegationLawID:   s.DelegationLawID,
			DelegationArticle: s.DelegationArticle,
			Output:            s.Output,
			Parameters:        s.Parameters,
			KeyedBy:           s.KeyedBy,
		}, nil
	default:
		return nil, xerr.ErrSchema("unknown source kind %q", s.Kind)
	}
}

func (a actionDTO) build() (lawast.Action, error) {
	op, err := a.Value.build()
	if err != nil {
		return lawast.Action{}, fmt.Errorf("action %s: %w", a.Output, err)
	}
	action := lawast.Action{
		OutputName:         a.Output,
		Value:              op,
		CompetentAuthority: a.CompetentAuthority,
	}
	if a.TypeSpec != nil {
		min, err := parseMinMax(a.TypeSpec.Min)
		if err != nil {
			return lawast.Action{}, err
		}
		max, err := parseMinMax(a.TypeSpec.Max)
		if err != nil {
			return lawast.Action{}, err
		}
		bounds, err := parseBoundsMode(a.TypeSpec.Bounds)
		if err != nil {
			return lawast.Action{}, fmt.Errorf("action %s: %w", a.Output, err)
		}
		action.TypeSpec = &lawast.TypeSpecRef{
			Unit:      a.TypeSpec.Unit,
			Precision: a.TypeSpec.Precision,
			Min:       min,
			Max:       max,
			Bounds:    bounds,
		}
	}
	return action, nil
}

// LoadDir walks root for *.law.yaml / *.law.yml files and parses each into
// a lawast.Law.
func LoadDir(root string) ([]*lawast.Law, error) {
	var laws []*lawast.Law
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".law.yaml") && !strings.HasSuffix(path, ".law.yml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		law, err := ParseLaw(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		laws = append(laws, law)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return laws, nil
}
