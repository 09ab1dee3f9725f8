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

package loader

import (
	"strconv"
	"strings"
	"time"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// opDTO is the wire shape of one node in an operation tree. It is a
// superset of every operation variant's fields; build() narrows on Op.
type opDTO struct {
	Op string `yaml:"op"`

	// LITERAL
	ValueType string `yaml:"value_type,omitempty"`
	Value     any    `yaml:"value,omitempty"`

	// REF
	Name string `yaml:"name,omitempty"`

	// Comparison / NullCheck / Membership
	Subject *opDTO `yaml:"subject,omitempty"`

	// Comparison
	Against *opDTO `yaml:"against,omitempty"`

	// Arithmetic / Logical(AND,OR) / Membership(values) / Concat
	Values []opDTO `yaml:"values,omitempty"`

	// Logical NOT
	Condition *opDTO `yaml:"condition,omitempty"`

	// If
	When *opDTO `yaml:"when,omitempty"`
	Then *opDTO `yaml:"then,omitempty"`
	Else *opDTO `yaml:"else,omitempty"`

	// Switch
	Cases   []caseDTO `yaml:"cases,omitempty"`
	Default *opDTO    `yaml:"default,omitempty"`

	// SubtractDate
	Unit string `yaml:"unit,omitempty"`

	// Foreach
	Items   *opDTO `yaml:"items,omitempty"`
	Action  *opDTO `yaml:"action,omitempty"`
	Combine string `yaml:"combine,omitempty"`

	// Get
	Path string `yaml:"path,omitempty"`
}

type caseDTO struct {
	When *opDTO `yaml:"when"`
	Then *opDTO `yaml:"then"`
}

// build converts a parsed opDTO tree into a lawast.Operation tree.
func (d *opDTO) build() (lawast.Operation, error) {
	if d == nil {
		return nil, nil
	}
	op := lawast.Tag(strings.ToUpper(d.Op))
	switch op {
	case lawast.TagLiteral:
		v, err := literalValue(d.ValueType, d.Value)
		if err != nil {
			return nil, err
		}
		return lawast.Literal{Value: v}, nil

	case lawast.TagRef:
		if d.Name == "" {
			return nil, xerr.ErrSchema("REF node missing name")
		}
		return lawast.Ref{Name: d.Name}, nil

	case lawast.TagEquals, lawast.TagNotEquals, lawast.TagGreaterThan, lawast.TagLessThan,
		lawast.TagGreaterThanOrEqual, lawast.TagLessThanOrEqual:
		subject, err := d.Subject.build()
		if err != nil {
			return nil, err
		}
		against, err := d.Against.build()
		if err != nil {
			return nil, err
		}
		return lawast.Comparison{Op: op, Subject: subject, Value: against}, nil

	case lawast.TagAdd, lawast.TagSubtract, lawast.TagMultiply, lawast.TagDivide, lawast.TagMin, lawast.TagMax:
		values, err := buildAll(d.Values)
		if err != nil {
			return nil, err
		}
		return lawast.Arithmetic{Op: op, Values: values}, nil

	case lawast.TagAnd, lawast.TagOr:
		conditions, err := buildAll(d.Values)
		if err != nil {
			return nil, err
		}
		return lawast.Logical{Op: op, Conditions: conditions}, nil

	case lawast.TagNot:
		cond, err := d.Condition.build()
		if err != nil {
			return nil, err
		}
		return lawast.Logical{Op: op, Conditions: []lawast.Operation{cond}}, nil

	case lawast.TagIf:
		when, err := d.When.build()
		if err != nil {
			return nil, err
		}
		then, err := d.Then.build()
		if err != nil {
			return nil, err
		}
		els, err := d.Else.build()
		if err != nil {
			return nil, err
		}
		return lawast.If{When: when, Then: then, Else: els}, nil

	case lawast.TagSwitch:
		cases := make([]lawast.SwitchCase, len(d.Cases))
		for i, c := range d.Cases {
			when, err := c.When.build()
			if err != nil {
				return nil, err
			}
			then, err := c.Then.build()
			if err != nil {
				return nil, err
			}
			cases[i] = lawast.SwitchCase{When: when, Then: then}
		}
		def, err := d.Default.build()
		if err != nil {
			return nil, err
		}
		return lawast.Switch{Cases: cases, Default: def}, nil

	case lawast.TagIsNull, lawast.TagNotNull, lawast.TagExists:
		subject, err := d.Subject.build()
		if err != nil {
			return nil, err
		}
		return lawast.NullCheck{Op: op, Subject: subject}, nil

	case lawast.TagIn, lawast.TagNotIn:
		subject, err := d.Subject.build()
		if err != nil {
			return nil, err
		}
		values, err := buildAll(d.Values)
		if err != nil {
			return nil, err
		}
		return lawast.Membership{Op: op, Subject: subject, Values: values}, nil

	case lawast.TagSubtractDate:
		values, err := buildAll(d.Values)
		if err != nil {
			return nil, err
		}
		if len(values) != 2 {
			return nil, xerr.ErrSchema("SUBTRACT_DATE requires exactly two values, got %d", len(values))
		}
		return lawast.SubtractDate{Values: [2]lawast.Operation{values[0], values[1]}, Unit: value.DateUnit(d.Unit)}, nil

	case lawast.TagForeach:
		items, err := d.Items.build()
		if err != nil {
			return nil, err
		}
		action, err := d.Action.build()
		if err != nil {
			return nil, err
		}
		return lawast.Foreach{Items: items, Action: action, Combine: lawast.Tag(strings.ToUpper(d.Combine))}, nil

	case lawast.TagGet:
		subject, err := d.Subject.build()
		if err != nil {
			return nil, err
		}
		return lawast.Get{Subject: subject, Path: d.Path}, nil

	case lawast.TagConcat:
		values, err := buildAll(d.Values)
		if err != nil {
			return nil, err
		}
		return lawast.Concat{Values: values}, nil

	default:
		return nil, xerr.ErrSchema("unknown operation %q", d.Op)
	}
}

func buildAll(dtos []opDTO) ([]lawast.Operation, error) {
	out := make([]lawast.Operation, len(dtos))
	for i := range dtos {
		op, err := dtos[i].build()
		if err != nil {
			return nil, err
		}
		out[i] = op
	}
	return out, nil
}

// literalValue converts a raw yaml.v3-decoded scalar/collection into a
// value.Value, honouring an explicit value_type for dates (yaml has no
// native date scalar in this dialect; dates are "YYYY-MM-DD" strings).
func literalValue(valueType string, raw any) (value.Value, error) {
	if strings.EqualFold(valueType, "date") {
		s, ok := raw.(string)
		if !ok {
			return nil, xerr.ErrSchema("literal value_type date requires a string, got %T", raw)
		}
		return parseDate(s)
	}
	return fromAny(raw)
}

func parseDate(s string) (value.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return value.Date{}, xerr.ErrSchema("invalid date %q: %v", s, err)
	}
	return value.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func fromAny(v any) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(t), nil
	case int:
		return value.Int(int64(t)), nil
	case int64:
		return value.Int(t), nil
	case float64:
		return value.Float(t), nil
	case string:
		return value.Str(t), nil
	case []any:
		out := make(value.List, len(t))
		for i, e := range t {
			ev, err := fromAny(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case map[string]any:
		out := make(value.Map, len(t))
		for k, e := range t {
			ev, err := fromAny(e)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	default:
		return nil, xerr.ErrSchema("unsupported literal value of type %T", v)
	}
}

// parseKind maps a YAML value_type string to a value.Kind, used for
// Parameter/InputField declarations.
func parseKind(s string) (value.Kind, error) {
	switch strings.ToLower(s) {
	case "null":
		return value.KindNull, nil
	case "bool", "boolean":
		return value.KindBool, nil
	case "int", "integer":
		return value.KindInt, nil
	case "float", "number":
		return value.KindFloat, nil
	case "string", "str":
		return value.KindString, nil
	case "date":
		return value.KindDate, nil
	case "list":
		return value.KindList, nil
	case "map", "object":
		return value.KindMap, nil
	default:
		return 0, xerr.ErrSchema("unknown value_type %q", s)
	}
}

// parseBoundsMode validates a typeSpecDTO's bounds field, normalising the
// empty default to "clamp". action.Run maps the result onto typespec.Clamp
// or typespec.Reject.
func parseBoundsMode(s string) (string, error) {
	switch strings.ToLower(s) {
	case "":
		return "clamp", nil
	case "clamp", "reject":
		return strings.ToLower(s), nil
	default:
		return "", xerr.ErrSchema("unknown type_spec bounds %q", s)
	}
}

func parseMinMax(s *string) (*float64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, xerr.ErrSchema("invalid numeric bound %q: %v", *s, err)
	}
	return &f, nil
}
