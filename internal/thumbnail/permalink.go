package thumbnail

import (
	"net/url"
	"strconv"
	"strings"
)

// Placeholder tokens left unsubstituted by Structure, for client-side
// templating.
const (
	TagID   = "%post_id%"
	TagSize = "%size%"
)

// Builder constructs the externally visible endpoint URLs. Build is the
// exact inverse of the registered rewrite rules: parsing its output yields
// raw parameters equal to (itoa(id), size-or-empty) in both routing modes.
type Builder struct {
	// BaseURL is the site base, without trailing slash significance.
	BaseURL string
	// Pretty selects path-based URLs over index.php query URLs.
	Pretty bool
	// Prefix overrides the default fixed path segment.
	Prefix string
}

func (b Builder) prefix() string {
	if b.Prefix != "" {
		return b.Prefix
	}
	return Prefix
}

// Structure returns the URL template with literal placeholder tokens.
func (b Builder) Structure() string {
	if b.Pretty {
		return "/" + b.prefix() + "/" + TagID + "/" + TagSize
	}
	return "/index.php?" + QueryVarID + "=" + TagID + "&" + QueryVarSize + "=" + TagSize
}

// Build returns the endpoint URL for id with an optional size name.
func (b Builder) Build(id int64, size string) string {
	size = strings.TrimSpace(size)
	if b.Pretty {
		size = url.PathEscape(size)
	} else {
		size = url.QueryEscape(size)
	}

	s := b.Structure()
	s = strings.ReplaceAll(s, TagID, strconv.FormatInt(id, 10))
	s = strings.ReplaceAll(s, TagSize, size)

	// An empty size substitution leaves a dangling separator.
	if b.Pretty {
		s = strings.TrimSuffix(s, "/")
	} else {
		s = strings.TrimSuffix(s, "&"+QueryVarSize+"=")
	}

	return strings.TrimSuffix(b.BaseURL, "/") + s
}
