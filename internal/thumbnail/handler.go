package thumbnail

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xemlock/thumbnail-endpoint/internal/host"
	"github.com/xemlock/thumbnail-endpoint/internal/sizes"
	"github.com/xemlock/thumbnail-endpoint/internal/storage"
)

// Handler resolves (identifier, size) to an asset URL and redirects.
type Handler struct {
	logger   *slog.Logger
	store    host.Store
	sizes    *sizes.Registry
	resolver storage.Resolver
}

func NewHandler(logger *slog.Logger, store host.Store, registry *sizes.Registry, resolver storage.Resolver) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		sizes:    registry,
		resolver: resolver,
	}
}

// Serve handles one request whose query parameters qv have already been
// populated by routing. It reports false when the request carries no
// identifier parameter, so normal processing can continue; otherwise it
// writes exactly one response (redirect, 404, or 500) and reports true.
//
// A missing item is not rejected up front: when no thumbnail association
// exists the item itself is consulted, and an image item serves as its own
// thumbnail. Only a failed resolution yields 404.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, qv url.Values) bool {
	// Malformed identifiers parse to 0 and fold into "not addressed".
	id, _ := strconv.ParseInt(strings.TrimSpace(qv.Get(QueryVarID)), 10, 64)
	if id <= 0 {
		return false
	}

	size := qv.Get(QueryVarSize)
	if !h.sizes.Has(size) {
		size = ""
	}

	ctx := r.Context()

	thumbID, err := h.store.ThumbnailID(ctx, id)
	if err != nil {
		h.logger.Error(err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return true
	}

	if thumbID == 0 {
		item, err := h.store.LookupItem(ctx, id)
		if errors.Is(err, host.ErrNotFound) {
			h.notFound(w, id)
			return true
		}
		if err != nil {
			h.logger.Error(err.Error())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return true
		}
		if !item.IsImage() {
			h.notFound(w, id)
			return true
		}
		thumbID = id
	}

	thumb, err := h.store.LookupItem(ctx, thumbID)
	if errors.Is(err, host.ErrNotFound) {
		h.notFound(w, id)
		return true
	}
	if err != nil {
		h.logger.Error(err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return true
	}

	res, err := h.resolver.Resolve(ctx, thumb.File, size)
	if err != nil {
		h.logger.Error(err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return true
	}
	if res == nil {
		h.notFound(w, id)
		return true
	}

	http.Redirect(w, r, res.URL, http.StatusFound)
	return true
}

func (h *Handler) notFound(w http.ResponseWriter, id int64) {
	h.logger.Debug("no thumbnail asset", slog.Int64("id", id))
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
