package thumbnail

import (
	"slices"
	"testing"

	"github.com/xemlock/thumbnail-endpoint/internal/rewrite"
)

func TestRegisterIsIdempotent(t *testing.T) {
	tbl := rewrite.NewTable()

	changed := Register(tbl, Prefix)
	assertEqual(t, changed, true)
	assertEqual(t, tbl.Dirty(), true)

	if err := tbl.RebuildIfDirty(); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, tbl.Dirty(), false)

	// second pass with unchanged rules leaves the table clean
	changed = Register(tbl, Prefix)
	assertEqual(t, changed, false)
	assertEqual(t, tbl.Dirty(), false)

	// changing the prefix dirties the table again
	changed = Register(tbl, "featured_image")
	assertEqual(t, changed, true)
	assertEqual(t, tbl.Dirty(), true)
}

func TestRegisterWhitelistsQueryVars(t *testing.T) {
	tbl := rewrite.NewTable()
	Register(tbl, Prefix)

	vars := tbl.QueryVars()
	assertEqual(t, slices.Contains(vars, QueryVarID), true)
	assertEqual(t, slices.Contains(vars, QueryVarSize), true)
}

func TestRegisteredRulesMatch(t *testing.T) {
	tbl := rewrite.NewTable()
	Register(tbl, Prefix)
	if err := tbl.RebuildIfDirty(); err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		testName string
		path     string
		matched  bool
		id       string
		size     string
	}{
		{
			testName: "id only",
			path:     "post_thumbnail/7",
			matched:  true,
			id:       "7",
		},
		{
			testName: "id and size",
			path:     "post_thumbnail/7/medium",
			matched:  true,
			id:       "7",
			size:     "medium",
		},
		{
			testName: "trailing slash after id",
			path:     "post_thumbnail/7/",
			matched:  true,
			id:       "7",
		},
		{
			testName: "trailing slash after size",
			path:     "post_thumbnail/7/medium/",
			matched:  true,
			id:       "7",
			size:     "medium",
		},
		{
			testName: "non-numeric id falls through",
			path:     "post_thumbnail/seven",
		},
		{
			testName: "extra segment falls through",
			path:     "post_thumbnail/7/medium/extra",
		},
		{
			testName: "unrelated path falls through",
			path:     "posts/7",
		},
	}

	for _, tc := range tt {
		t.Run(tc.testName, func(t *testing.T) {
			values, ok := tbl.Match(tc.path)
			assertEqual(t, ok, tc.matched)
			if !tc.matched {
				return
			}
			assertEqual(t, values.Get(QueryVarID), tc.id)
			assertEqual(t, values.Get(QueryVarSize), tc.size)
		})
	}
}

func assertEqual[U comparable](t *testing.T, got, want U) {
	t.Helper()
	if got != want {
		t.Errorf("got %v; want %v", got, want)
	}
}
