// Package rewrite holds the routing table that maps URL path patterns to
// internal query parameters, mirroring how a CMS front controller rewrites
// pretty permalinks before dispatching.
package rewrite

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Rule rewrites a matched request path into internal query parameters.
// Pattern is a regexp applied to the request path with the leading slash
// stripped. Target has the form "index.php?name=$1&other=$2"; capture
// references are expanded per parameter.
type Rule struct {
	Pattern  string
	Target   string
	Priority int
}

type compiledRule struct {
	re     *regexp.Regexp
	params []targetParam
}

type targetParam struct {
	name     string
	template string
}

// Table is the process-wide routing table. Mutations mark it dirty;
// RebuildIfDirty compiles the rules exactly once per change, since
// rebuilding is the expensive operation and must not run per request.
type Table struct {
	rules     []Rule
	compiled  []compiledRule
	queryVars map[string]struct{}
	dirty     bool
}

func NewTable() *Table {
	return &Table{
		queryVars: make(map[string]struct{}),
	}
}

// Rules returns the currently installed pattern/target pairs.
func (t *Table) Rules() map[string]string {
	out := make(map[string]string, len(t.rules))
	for _, r := range t.rules {
		out[r.Pattern] = r.Target
	}
	return out
}

// Add installs or replaces a rule. Lower priority values match first.
func (t *Table) Add(pattern, target string, priority int) {
	for i, r := range t.rules {
		if r.Pattern == pattern {
			if r.Target == target && r.Priority == priority {
				return
			}
			t.rules[i].Target = target
			t.rules[i].Priority = priority
			t.sortRules()
			t.MarkDirty()
			return
		}
	}
	t.rules = append(t.rules, Rule{Pattern: pattern, Target: target, Priority: priority})
	t.sortRules()
	t.MarkDirty()
}

func (t *Table) sortRules() {
	sort.SliceStable(t.rules, func(i, j int) bool {
		return t.rules[i].Priority < t.rules[j].Priority
	})
}

// AllowQueryVar registers a query parameter name so FilterQuery and Match
// keep it instead of discarding it.
func (t *Table) AllowQueryVar(name string) {
	t.queryVars[name] = struct{}{}
}

// QueryVars returns the whitelisted parameter names, sorted.
func (t *Table) QueryVars() []string {
	out := make([]string, 0, len(t.queryVars))
	for name := range t.queryVars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *Table) MarkDirty() { t.dirty = true }

func (t *Table) Dirty() bool { return t.dirty }

// RebuildIfDirty recompiles the rule regexps when the table changed since
// the last rebuild. It is a no-op otherwise.
func (t *Table) RebuildIfDirty() error {
	if !t.dirty {
		return nil
	}
	compiled := make([]compiledRule, 0, len(t.rules))
	for _, r := range t.rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("bad rewrite pattern %q: %w", r.Pattern, err)
		}
		params, err := parseTarget(r.Target)
		if err != nil {
			return fmt.Errorf("bad rewrite target %q: %w", r.Target, err)
		}
		compiled = append(compiled, compiledRule{re: re, params: params})
	}
	t.compiled = compiled
	t.dirty = false
	return nil
}

func parseTarget(target string) ([]targetParam, error) {
	query := target
	if i := strings.IndexByte(target, '?'); i >= 0 {
		query = target[i+1:]
	}
	var params []targetParam
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		name, template, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q has no value", pair)
		}
		params = append(params, targetParam{name: name, template: template})
	}
	return params, nil
}

// Match applies the first rule whose pattern matches path (leading slash
// stripped) and returns the rewritten query parameters, filtered to the
// whitelisted names. Call RebuildIfDirty first; rules added since the last
// rebuild are not consulted.
func (t *Table) Match(path string) (url.Values, bool) {
	path = strings.TrimPrefix(path, "/")
	for _, cr := range t.compiled {
		m := cr.re.FindStringSubmatchIndex(path)
		if m == nil {
			continue
		}
		values := url.Values{}
		for _, p := range cr.params {
			if _, ok := t.queryVars[p.name]; !ok {
				continue
			}
			// Expand $1-style references against this match only, so
			// captured text containing & or = cannot leak into other
			// parameters.
			expanded := cr.re.ExpandString(nil, p.template, path, m)
			values.Set(p.name, string(expanded))
		}
		return values, true
	}
	return nil, false
}

// FilterQuery returns a copy of q holding only whitelisted parameters.
func (t *Table) FilterQuery(q url.Values) url.Values {
	out := url.Values{}
	for name := range t.queryVars {
		if q.Has(name) {
			out.Set(name, q.Get(name))
		}
	}
	return out
}
