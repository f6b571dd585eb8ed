package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fieldlab/corpusgraph/pkg/cache"
	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
	"github.com/fieldlab/corpusgraph/pkg/export"
	"github.com/fieldlab/corpusgraph/pkg/pipeline"
	"github.com/fieldlab/corpusgraph/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// graphResponse wraps a positioned graph with run metadata.
type graphResponse struct {
	Mode     string          `json:"mode"`
	Strategy string          `json:"strategy"`
	CacheHit bool            `json:"cache_hit"`
	Graph    json.RawMessage `json:"graph"`
}

// handleBuildGraph builds a graph from a posted raw payload.
//
//	POST /api/graph?mode=overview&categories=Word,Phrase&language=xx&limit=200
func (s *Server) handleBuildGraph(w http.ResponseWriter, r *http.Request) {
	raw, err := corpus.DecodeRaw(r.Body)
	if err != nil {
		s.writeError(w, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "decode payload"))
		return
	}
	corpus.ResolveLabels(raw)
	corpus.ApplyPalette(raw)

	opts, err := buildOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), raw, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondGraph(w, r, result, "")
}

// handleFilters describes the static filter surface: the known categories
// and the per-category limit bounds.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, pipeline.FilterMeta{
		Categories: corpus.Categories(),
		MinLimit:   corpus.MinFilterLimit,
		MaxLimit:   corpus.MaxFilterLimit,
		Default:    corpus.DefaultFilterLimit,
	})
}

// saveCorpusRequest is the body of POST /api/corpora.
type saveCorpusRequest struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Raw  corpus.RawGraph `json:"raw"`
}

func (s *Server) handleSaveCorpus(w http.ResponseWriter, r *http.Request) {
	var req saveCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "decode corpus"))
		return
	}

	// Labels and palette colors are resolved once at ingest, so every
	// build of the stored corpus sees them as explicit values.
	corpus.ResolveLabels(&req.Raw)
	corpus.ApplyPalette(&req.Raw)

	c := &store.Corpus{ID: req.ID, Name: req.Name, Raw: req.Raw}
	if err := s.store.Save(r.Context(), c); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, store.Info{
		ID:        c.ID,
		Name:      c.Name,
		NodeCount: c.NodeCount,
		EdgeCount: c.EdgeCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
}

func (s *Server) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]store.Info{"corpora": infos})
}

func (s *Server) handleGetCorpus(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Get(r.Context(), chi.URLParam(r, "corpusID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCorpus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "corpusID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	delete(s.scoped, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleCorpusGraph builds the graph of a stored corpus.
//
//	GET /api/corpora/{corpusID}/graph?mode=focused&format=svg
func (s *Server) handleCorpusGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "corpusID")
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts, err := buildOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.scopedRunner(id).Execute(r.Context(), &c.Raw, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondGraph(w, r, result, r.URL.Query().Get("format"))
}

func (s *Server) handleCorpusFilters(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "corpusID")
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	meta, err := s.scopedRunner(id).Filters(r.Context(), &c.Raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

// corpusStatsResponse pairs corpus identity with its build statistics and
// a per-category node breakdown.
type corpusStatsResponse struct {
	Corpus     store.Info     `json:"corpus"`
	Stats      corpus.Stats   `json:"stats"`
	Categories map[string]int `json:"categories"`
}

func (s *Server) handleCorpusStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "corpusID")
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Stats depend only on the build, so skip refinement.
	result, err := s.scopedRunner(id).Execute(r.Context(), &c.Raw, pipeline.Options{SkipRefine: true})
	if err != nil {
		s.writeError(w, err)
		return
	}
	// The placeholder node is synthetic and never counted.
	categories := make(map[string]int)
	if !result.Stats.Placeholder {
		for _, n := range result.Graph.Nodes() {
			categories[string(n.Category)]++
		}
	}

	s.writeJSON(w, http.StatusOK, corpusStatsResponse{
		Corpus: store.Info{
			ID:        c.ID,
			Name:      c.Name,
			NodeCount: c.NodeCount,
			EdgeCount: c.EdgeCount,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		Stats:      result.Stats,
		Categories: categories,
	})
}

// respondGraph writes a pipeline result in the requested format. JSON (the
// default) carries run metadata; DOT and SVG are raw exports.
func (s *Server) respondGraph(w http.ResponseWriter, r *http.Request, result *pipeline.Result, format string) {
	format, err := export.ParseFormat(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == export.FormatJSON {
		graphData, err := corpus.MarshalGraph(result.Graph)
		if err != nil {
			s.writeError(w, cgerrors.Wrap(cgerrors.ErrCodeInternal, err, "encode graph"))
			return
		}
		s.writeJSON(w, http.StatusOK, graphResponse{
			Mode:     string(result.Mode),
			Strategy: result.Strategy,
			CacheHit: result.CacheHit,
			Graph:    graphData,
		})
		return
	}

	data, err := export.Export(r.Context(), result.Graph, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	switch format {
	case export.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	case export.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// scopedRunner returns the runner for one corpus, creating it on first
// use. Scoped runners share the server's cache and logger but namespace
// their cache keys; reusing them keeps each corpus's generation counter
// monotonic across requests. They are never closed individually since the
// cache is shared.
func (s *Server) scopedRunner(corpusID string) *pipeline.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.scoped[corpusID]; ok {
		return r
	}
	r := pipeline.NewRunner(
		s.runner.Cache,
		cache.NewScopedKeyer(s.runner.Keyer, "corpus:"+corpusID+":"),
		s.runner.Logger,
	)
	s.scoped[corpusID] = r
	return r
}

// buildOptions parses the shared build/layout query parameters.
func buildOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Mode:     q.Get("mode"),
		Language: q.Get("language"),
		Refresh:  q.Get("refresh") == "true",
	}
	if cats := strings.TrimSpace(q.Get("categories")); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				opts.Categories = append(opts.Categories, c)
			}
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return opts, cgerrors.New(cgerrors.ErrCodeInvalidFilter, "invalid limit: %q", raw)
		}
		opts.Limit = limit
	}
	return opts, nil
}
