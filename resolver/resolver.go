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

// Package resolver is the law registry: it indexes laws by id, keeps
// multiple time-valid versions per id ordered by valid_from descending,
// and answers the lookups the evaluator needs (version selection,
// output-producing article lookup, delegation candidate enumeration).
package resolver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// Resolver is the read-mostly law registry. Writes (Load/Unload) must be
// externally serialised relative to in-flight evaluations; reads are
// concurrency-safe among themselves.
type Resolver struct {
	mu       sync.RWMutex
	versions map[string][]*lawast.Law // id -> versions, sorted valid_from descending
}

// New creates an empty Resolver.
func New() *Resolver {
	return &Resolver{versions: make(map[string][]*lawast.Law)}
}

// Load registers a law version. It returns a SchemaError if another
// version with an identical valid_from already exists for this id.
func (r *Resolver) Load(law *lawast.Law) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.versions[law.ID] {
		if sameValidFrom(existing.ValidFrom, law.ValidFrom) {
			return xerr.ErrSchema("law %q already has a version with valid_from=%v", law.ID, law.ValidFrom)
		}
	}

	r.versions[law.ID] = append(r.versions[law.ID], law)
	sort.SliceStable(r.versions[law.ID], func(i, j int) bool {
		return validFromDescLess(r.versions[law.ID][i].ValidFrom, r.versions[law.ID][j].ValidFrom)
	})
	return nil
}

// UnloadVersion removes the version of id matching validFrom (nil matches
// the "valid for any date" version). Used for testing / hot reload.
func (r *Resolver) UnloadVersion(id string, validFrom *value.Date) {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions := r.versions[id]
	out := versions[:0]
	for _, v := range versions {
		if !sameValidFrom(v.ValidFrom, validFrom) {
			out = append(out, v)
		}
	}
	r.versions[id] = out
}

// GetLaw returns the version of id valid at refDate: the first entry (in
// descending valid_from order) whose valid_from is on or before refDate,
// or which has no valid_from at all.
func (r *Resolver) GetLaw(id string, refDate value.Date) (*lawast.Law, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, law := range r.versions[id] {
		if law.ValidFrom == nil {
			return law, nil
		}
		if cmp, _ := value.Compare("valid_from", *law.ValidFrom, refDate); cmp <= 0 {
			return law, nil
		}
	}
	return nil, xerr.ErrNoVersion(id, refDate.String())
}

// GetArticleByOutput resolves the law valid at refDate, then returns the
// first article (document order) that declares output among its
// execution.output names.
func (r *Resolver) GetArticleByOutput(id, output string, refDate value.Date) (*lawast.Article, error) {
	law, err := r.GetLaw(id, refDate)
	if err != nil {
		return nil, err
	}
	for _, article := range law.Articles {
		if article.MachineReadable == nil {
			continue
		}
		for _, o := range article.MachineReadable.Execution.Outputs {
			if o == output {
				return article, nil
			}
		}
	}
	return nil, xerr.ErrNotFound(id, output)
}

// FindDelegatedRegulations enumerates every registered law (across all ids
// and versions) whose LegalBasis matches (delegatingLawID, article) and
// whose KeyAttributes satisfy criteria, at refDate. Loaders are expected to
// guarantee at most one match per jurisdiction; the delegation resolver
// treats more than one as AmbiguousDelegation.
func (r *Resolver) FindDelegatedRegulations(delegatingLawID, article string, criteria map[string]string, refDate value.Date) []*lawast.Law {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*lawast.Law
	for id, versions := range r.versions {
		for _, law := range versions {
			if law.ValidFrom != nil {
				if cmp, _ := value.Compare("valid_from", *law.ValidFrom, refDate); cmp > 0 {
					continue
				}
			}
			if !hasLegalBasis(law, delegatingLawID, article) {
				continue
			}
			if !matchesCriteria(law, criteria) {
				continue
			}
			matches = append(matches, law)
			_ = id
		}
	}
	return dedupeLatestPerID(matches)
}

func hasLegalBasis(law *lawast.Law, lawID, article string) bool {
	for _, lb := range law.LegalBasis {
		if lb.LawID == lawID && lb.Article == article {
			return true
		}
	}
	return false
}

func matchesCriteria(law *lawast.Law, criteria map[string]string) bool {
	for k, v := range criteria {
		if law.KeyAttributes[k] != v {
			return false
		}
	}
	return true
}

// dedupeLatestPerID keeps only the most recent matching version per law id,
// since only one version of a given regulation should be "the" candidate
// at a given reference date.
func dedupeLatestPerID(laws []*lawast.Law) []*lawast.Law {
	best := make(map[string]*lawast.Law)
	order := make([]string, 0, len(laws))
	for _, law := range laws {
		cur, ok := best[law.ID]
		if !ok {
			best[law.ID] = law
			order = append(order, law.ID)
			continue
		}
		if validFromDescLess(law.ValidFrom, cur.ValidFrom) {
			best[law.ID] = law
		}
	}
	out := make([]*lawast.Law, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

func sameValidFrom(a, b *value.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// validFromDescLess reports whether a sorts before b in descending
// valid_from order: a nil valid_from ("matches any date") always sorts
// last.
func validFromDescLess(a, b *value.Date) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	cmp, _ := value.Compare("valid_from", *a, *b)
	return cmp > 0
}

func (r *Resolver) String() string {
	return fmt.Sprintf("resolver(%d laws)", len(r.versions))
}
