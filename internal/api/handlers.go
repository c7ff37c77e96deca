package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/fetcher"
	"kriptomarket/internal/i18n"
	"kriptomarket/internal/listing"
	"kriptomarket/internal/log"
	"kriptomarket/internal/poller"
	"kriptomarket/internal/provider"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	category, err := listing.ParseCategory(params.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key, err := listing.ParseSortKey(params.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := listing.ParseOrder(params.Get("order"), key)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 0
	if v := params.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 || limit > maxLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 0 and 1000")
			return
		}
	}
	var source asset.Source
	if v := params.Get("source"); v != "" {
		if source, err = asset.ParseSource(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var chains []string
	for _, v := range params["chain"] {
		chains = append(chains, splitCSV(v)...)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	lang := s.language(ctx, params.Get("lang"))
	snap, err := s.snapshot(ctx)
	if err != nil && len(snap.Assets) == 0 {
		writeFetchError(w, lang, err)
		return
	}

	matched := listing.Filter(snap.Assets, listing.Query{
		Search:   params.Get("q"),
		Category: category,
		Chains:   chains,
		Source:   source,
	})
	listing.Sort(matched, key, order)
	page := listing.Page(matched, limit)

	resp := assetsResponse{
		Assets:     make([]assetView, 0, len(page)),
		Count:      len(page),
		Total:      len(matched),
		Language:   lang,
		FetchedAt:  snap.FetchedAt,
		UpdatedAt:  snap.UpdatedAt,
		Generation: snap.Generation,
	}
	for _, a := range page {
		resp.Assets = append(resp.Assets, assetView{Asset: a, Display: displayOf(a)})
	}
	if len(page) == 0 {
		resp.Message = lang.Label(i18n.NoResults)
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// snapshot returns the latest poll result, fetching once when nothing has
// been applied yet.
func (s *Server) snapshot(ctx context.Context) (poller.Snapshot, error) {
	snap := s.snaps.Latest()
	if snap.Generation > 0 {
		return snap, snap.Err
	}
	snap, err := s.snaps.Refresh(ctx)
	if errors.Is(err, poller.ErrInFlight) {
		return snap, errors.Wrap(err, "first fetch still running")
	}
	return snap, err
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	switch err := dec.Decode(&body); {
	case errors.Is(err, io.EOF):
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	case s.targets == nil:
		writeError(w, http.StatusNotImplemented, "refresh target cannot be changed")
		return
	default:
		// a fetch still running for the old target comes back stale
		s.targets.Retarget(strings.TrimSpace(body.Query), splitCSV(strings.Join(body.Tokens, ",")))
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	snap, err := s.snaps.Refresh(ctx)
	resp := refreshResponse{Status: "applied", Assets: len(snap.Assets), Generation: snap.Generation, UpdatedAt: snap.UpdatedAt}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, poller.ErrInFlight):
		resp.Status = "in_flight"
		writeJSON(w, http.StatusAccepted, resp)
	case errors.Is(err, poller.ErrStale):
		resp.Status = "stale"
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, poller.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeFetchError(w, s.language(ctx, ""), err)
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	src, err := asset.ParseSource(r.PathValue("source"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	lang := s.language(ctx, r.URL.Query().Get("lang"))
	d, err := s.details.FetchDetail(ctx, asset.Ref{Source: src, ID: id, Chain: r.URL.Query().Get("chain")})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, detailView(d, lang))
	case provider.IsNotFound(err), errors.Is(err, fetcher.ErrUnknownProvider):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, provider.ErrDetailUnsupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		writeFetchError(w, lang, err)
	}
}

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := s.prefs.Language(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, languageResponse{Language: lang})
}

func (s *Server) handlePutLanguage(w http.ResponseWriter, r *http.Request) {
	var b languageBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	lang, err := i18n.Parse(b.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.prefs.SetLanguage(r.Context(), lang); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, languageResponse{Language: lang})
}

func (s *Server) handleToggleLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := s.prefs.ToggleLanguage(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, languageResponse{Language: lang})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	lang := s.language(r.Context(), r.URL.Query().Get("lang"))
	writeJSON(w, http.StatusOK, labelsResponse{Language: lang, Labels: lang.Labels()})
}

// language resolves an explicit ?lang= first, then the stored preference.
func (s *Server) language(ctx context.Context, explicit string) i18n.Language {
	if explicit != "" {
		if lang, err := i18n.Parse(explicit); err == nil {
			return lang
		}
	}
	lang, err := s.prefs.Language(ctx)
	if err != nil {
		log.Warnw("cannot read language preference", "error", err)
		return i18n.Default
	}
	return lang
}

func writeFetchError(w http.ResponseWriter, lang i18n.Language, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, provider.ErrFetchFailed):
		code = http.StatusBadGateway
	case errors.Is(err, poller.ErrInFlight):
		code = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	writeError(w, code, lang.Label(i18n.FetchError)+": "+err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Debugw("cannot write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
