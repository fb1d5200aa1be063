package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"personmerge/internal/accounts"
	"personmerge/internal/apperror"
	"personmerge/internal/merge"
	"personmerge/internal/report"
)

type mergeHandler struct {
	defaults     []merge.Option
	topN         int
	maxBodyBytes int64
	logger       *slog.Logger
}

// options layers query overrides (?name=first|last, ?fold=true) over the defaults.
func (h *mergeHandler) options(r *http.Request) ([]merge.Option, error) {
	opts := append([]merge.Option(nil), h.defaults...)
	q := r.URL.Query()
	if name := q.Get("name"); name != "" {
		policy, err := merge.ParseNamePolicy(name)
		if err != nil {
			return nil, apperror.InvalidOption("name", err.Error())
		}
		opts = append(opts, merge.WithNamePolicy(policy))
	}
	if fold := q.Get("fold"); fold != "" {
		on, err := strconv.ParseBool(fold)
		if err != nil {
			return nil, apperror.InvalidOption("fold", "fold must be a boolean")
		}
		if on {
			opts = append(opts, merge.WithEmailKey(merge.FoldEmail))
		} else {
			opts = append(opts, merge.WithEmailKey(merge.ExactEmail))
		}
	}
	return opts, nil
}

// merge decodes and merges the request body. It writes the response itself
// and returns false when there is nothing left for the caller to do.
func (h *mergeHandler) merge(w http.ResponseWriter, r *http.Request, opts []merge.Option) ([]accounts.Account, []accounts.Person, bool) {
	list, err := accounts.Read(http.MaxBytesReader(w, r.Body, h.maxBodyBytes), "request body")
	if err != nil {
		h.logger.Warn("rejected account list", slog.String("error", err.Error()))
		writeError(w, h.logger, err)
		return nil, nil, false
	}

	persons, err := merge.Merge(list, opts...)
	if apperror.IsNoop(err) {
		w.WriteHeader(http.StatusNoContent)
		return nil, nil, false
	}
	if err != nil {
		writeError(w, h.logger, err)
		return nil, nil, false
	}
	return list, persons, true
}

// HandleMerge handles POST /v1/merge.
func (h *mergeHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	_, persons, ok := h.merge(w, r, opts)
	if !ok {
		return
	}
	body, err := accounts.Encode(persons)
	if err != nil {
		h.logger.Error("failed to encode persons", slog.String("error", err.Error()))
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HandleReport handles POST /v1/report.
func (h *mergeHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	list, persons, ok := h.merge(w, r, opts)
	if !ok {
		return
	}
	rep, err := report.Compute(persons, h.topN)
	if err == nil {
		rep.Linchpins, err = report.Linchpins(list, persons, merge.EmailKey(opts...))
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, rep)
}

// HandleHealth handles GET /healthz.
func (h *mergeHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
