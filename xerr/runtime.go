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

// Package xerr is the engine's error taxonomy: one Go type per error kind
// named in §7, each constructed through an Err* function and wrapped with
// github.com/pkg/errors at the point of return. Errors are returned, never
// thrown through the call stack beyond the facade.
package xerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SchemaError means a malformed AST reached the engine — a loader bug, not
// a corpus or caller error.
type SchemaError struct{ Detail string }

func (e SchemaError) Error() string { return "schema error: " + e.Detail }

func ErrSchema(format string, args ...any) error {
	return errors.Wrap(SchemaError{Detail: fmt.Sprintf(format, args...)}, "schema")
}

// NoVersionError means no version of a law is valid at the requested date.
type NoVersionError struct {
	LawID string
	Date  string
}

func (e NoVersionError) Error() string {
	return fmt.Sprintf("no version of law %q valid at %s", e.LawID, e.Date)
}

func ErrNoVersion(lawID, date string) error {
	return errors.Wrap(NoVersionError{LawID: lawID, Date: date}, "resolve law")
}

// NotFoundError means a law has no article producing the requested output.
type NotFoundError struct {
	LawID  string
	Output string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("law %q has no article producing output %q", e.LawID, e.Output)
}

func ErrNotFound(lawID, output string) error {
	return errors.Wrap(NotFoundError{LawID: lawID, Output: output}, "resolve output")
}

// ResolutionError means a `$name` reference could not be bound through any
// resolve category.
type ResolutionError struct {
	Name          string
	ScopeSearched []string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("unresolved reference $%s (searched: %s)", e.Name, strings.Join(e.ScopeSearched, ", "))
}

func ErrResolution(name string, scopeSearched []string) error {
	return errors.Wrap(ResolutionError{Name: name, ScopeSearched: scopeSearched}, "resolve identifier")
}

// CyclicActionsError means an article's action dependency graph has a
// cycle.
type CyclicActionsError struct {
	Article string
	Cycle   []string
}

func (e CyclicActionsError) Error() string {
	return fmt.Sprintf("cyclic action dependency in article %s: %s", e.Article, strings.Join(e.Cycle, " -> "))
}

func ErrCyclicActions(article string, cycle []string) error {
	return errors.Wrap(CyclicActionsError{Article: article, Cycle: cycle}, "build dependency graph")
}

// NoLegalBasisError means a mandatory delegation found no matching
// regulation and the delegating article declares no defaults.
type NoLegalBasisError struct {
	LawID    string
	Article  string
	Criteria map[string]string
}

func (e NoLegalBasisError) Error() string {
	return fmt.Sprintf("no regulation delegates from %s/%s matching %v", e.LawID, e.Article, e.Criteria)
}

func ErrNoLegalBasis(lawID, article string, criteria map[string]string) error {
	return errors.Wrap(NoLegalBasisError{LawID: lawID, Article: article, Criteria: criteria}, "resolve delegation")
}

// AmbiguousDelegationError means more than one regulation delegates from
// the same law/article/criteria — a loader bug.
type AmbiguousDelegationError struct {
	LawID      string
	Article    string
	Criteria   map[string]string
	Candidates []string
}

func (e AmbiguousDelegationError) Error() string {
	return fmt.Sprintf("ambiguous delegation from %s/%s: candidates %v", e.LawID, e.Article, e.Candidates)
}

func ErrAmbiguousDelegation(lawID, article string, criteria map[string]string, candidates []string) error {
	return errors.Wrap(AmbiguousDelegationError{LawID: lawID, Article: article, Criteria: criteria, Candidates: candidates}, "resolve delegation")
}

// TypeError means an operation received operand types its contract does
// not accept. This mirrors value.TypeError but is the xerr-level wrapper
// used outside the value package.
type TypeError struct {
	Op       string
	Operands []string
}

func (e TypeError) Error() string {
	return fmt.Sprintf("type error in %s: operands %v", e.Op, e.Operands)
}

func ErrType(op string, operands ...string) error {
	return errors.Wrap(TypeError{Op: op, Operands: operands}, "evaluate operation")
}

// DivisionByZeroError.
type DivisionByZeroError struct{ Op string }

func (e DivisionByZeroError) Error() string { return "division by zero in " + e.Op }

func ErrDivisionByZero(op string) error {
	return errors.Wrap(DivisionByZeroError{Op: op}, "evaluate operation")
}

// NumericOverflowError.
type NumericOverflowError struct{ Op string }

func (e NumericOverflowError) Error() string { return "numeric overflow in " + e.Op }

func ErrNumericOverflow(op string) error {
	return errors.Wrap(NumericOverflowError{Op: op}, "evaluate operation")
}

// NaNOrInfinityError.
type NaNOrInfinityError struct{ Op string }

func (e NaNOrInfinityError) Error() string { return "NaN or infinity produced by " + e.Op }

func ErrNaNOrInfinity(op string) error {
	return errors.Wrap(NaNOrInfinityError{Op: op}, "evaluate operation")
}

// DepthLimitError means a cross-law call chain exceeded the depth-64
// bound, or re-entered a frame already on the stack.
type DepthLimitError struct {
	Stack []string
	Limit int
}

func (e DepthLimitError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("cross-law call depth exceeds %d: %s", e.Limit, strings.Join(e.Stack, " -> "))
	}
	return "re-entered cross-law frame: " + strings.Join(e.Stack, " -> ")
}

func ErrDepthLimit(stack []string, limit int) error {
	return errors.Wrap(DepthLimitError{Stack: stack, Limit: limit}, "cross-law call")
}

func ErrReentrantFrame(stack []string) error {
	return errors.Wrap(DepthLimitError{Stack: stack}, "cross-law call")
}

// DataSourceMissingError means an input asked the data-source registry for
// a source name that was never registered.
type DataSourceMissingError struct{ Name string }

func (e DataSourceMissingError) Error() string { return "data source not registered: " + e.Name }

func ErrDataSourceMissing(name string) error {
	return errors.Wrap(DataSourceMissingError{Name: name}, "resolve input")
}

// MissingParameterError means a caller omitted a Parameter or InputField
// declared `required: true`.
type MissingParameterError struct{ Name string }

func (e MissingParameterError) Error() string { return "missing required parameter: " + e.Name }

func ErrMissingParameter(name string) error {
	return errors.Wrap(MissingParameterError{Name: name}, "validate parameters")
}

// ParameterTypeError means a caller-supplied Parameter or InputField value's
// Kind does not match its declared ValueType.
type ParameterTypeError struct {
	Name      string
	Want, Got string
}

func (e ParameterTypeError) Error() string {
	return fmt.Sprintf("parameter %s: declared %s, got %s", e.Name, e.Want, e.Got)
}

func ErrParameterType(name, want, got string) error {
	return errors.Wrap(ParameterTypeError{Name: name, Want: want, Got: got}, "validate parameters")
}

// InvalidInvocationError covers programmer-level preconditions (nil
// registry, etc.). Like every other kind here, it is returned, not panicked.
type InvalidInvocationError struct{ Reason string }

func (e InvalidInvocationError) Error() string { return "invalid invocation: " + e.Reason }

func ErrInvalidInvocation(reason string) error {
	return errors.Wrap(InvalidInvocationError{Reason: reason}, "precondition")
}
