// Package thumbnail implements the post-thumbnail endpoint: a rewrite rule
// that extracts an identifier and an optional size from the request URL, a
// handler that resolves the pair to an asset URL and redirects to it, and a
// permalink builder that is the exact inverse of the rewrite rule.
package thumbnail

import "github.com/xemlock/thumbnail-endpoint/internal/rewrite"

const (
	// Prefix is the fixed first path segment of pretty-permalink requests.
	Prefix = "post_thumbnail"

	// Query parameter names the endpoint registers with the routing table.
	QueryVarID   = "post_thumbnail_id"
	QueryVarSize = "post_thumbnail_size"
)

const rulePriority = 10

// Register installs the endpoint's rewrite rules under prefix and whitelists
// its query parameters. It reports whether the table changed and therefore
// needs a rebuild, so the caller can flush rules exactly once per change
// instead of on every startup pass.
func Register(tbl *rewrite.Table, prefix string) bool {
	tbl.AllowQueryVar(QueryVarID)
	tbl.AllowQueryVar(QueryVarSize)

	rules := endpointRules(prefix)
	current := tbl.Rules()
	changed := false
	for _, r := range rules {
		if current[r.Pattern] != r.Target {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}
	for _, r := range rules {
		tbl.Add(r.Pattern, r.Target, r.Priority)
	}
	tbl.MarkDirty()
	return true
}

func endpointRules(prefix string) []rewrite.Rule {
	return []rewrite.Rule{
		{
			// /<prefix>/<id>/<size>
			Pattern:  "^" + prefix + `/([0-9]+)/([^/]+?)/?$`,
			Target:   "index.php?" + QueryVarID + "=$1&" + QueryVarSize + "=$2",
			Priority: rulePriority,
		},
		{
			// /<prefix>/<id>
			Pattern:  "^" + prefix + `/([0-9]+)/?$`,
			Target:   "index.php?" + QueryVarID + "=$1",
			Priority: rulePriority + 1,
		},
	}
}
