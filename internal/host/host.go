// Package host exposes the narrow content-store surface the thumbnail
// endpoint consumes: item lookup and the item→thumbnail association.
package host

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("item not found")

// Item is a content item. File is the storage object key of the attached
// media and is empty for non-attachment items.
type Item struct {
	ID       int64
	Type     string
	MimeType string
	File     string
}

// IsImage reports whether the item is itself an image attachment.
func (it *Item) IsImage() bool {
	return strings.HasPrefix(it.MimeType, "image/")
}

// Store is the content-store surface the endpoint needs.
type Store interface {
	// LookupItem fetches the item named by id, or ErrNotFound.
	LookupItem(ctx context.Context, id int64) (*Item, error)
	// ThumbnailID returns the identifier of the thumbnail associated with
	// the item, or 0 when no association exists.
	ThumbnailID(ctx context.Context, id int64) (int64, error)
}
