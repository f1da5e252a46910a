package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
	"github.com/matzehuels/trombinoscope/pkg/query"
	"github.com/matzehuels/trombinoscope/pkg/render/sink"
)

// maxBodyBytes bounds a POSTed employee, base64 photo included.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.List(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// filtered lists employees matching the ?filter= expression.
func (s *Server) filtered(r *http.Request) ([]directory.Employee, string, error) {
	expr := r.URL.Query().Get("filter")
	f, err := query.Compile(expr)
	if err != nil {
		return nil, expr, err
	}
	list, err := s.svc.List(r.Context())
	if err != nil {
		return nil, expr, err
	}
	list, err = f.At(s.now()).Apply(list)
	return list, expr, err
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	page := sink.Page{View: sink.ViewCards, Now: s.now(), Title: s.chart.Title}

	list, expr, err := s.filtered(r)
	page.Filter = expr
	if terrors.Is(err, terrors.ErrCodeInvalidFilter) {
		page.Notice = terrors.UserMessage(err)
		list, err = s.svc.List(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	page.Employees = list
	s.writePage(w, r, page)
}

func (s *Server) handleChartPage(w http.ResponseWriter, r *http.Request) {
	page := sink.Page{View: sink.ViewChart, Now: s.now(), Title: s.chart.Title}

	res, err := s.render(r, pipeline.FormatSVG)
	switch {
	case err == nil:
		page.Chart = res.Artifacts[pipeline.FormatSVG]
	case isHierarchyError(err):
		s.logger.Warn("no chart to render", "error", err, "request_id", RequestID(r.Context()))
		page.Notice = sink.NoChartNotice
	default:
		writeError(w, r, err)
		return
	}
	s.writePage(w, r, page)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, page sink.Page) {
	html, err := sink.RenderHTML(page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(pipeline.FormatHTML))
	_, _ = w.Write(html)
}

func (s *Server) handleChartFile(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format == pipeline.FormatHTML {
		s.handleChartPage(w, r)
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.render(r, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(res.Artifacts[format])
}

// render runs the pipeline on the current directory. ?style= overrides the
// configured style.
func (s *Server) render(r *http.Request, format string) (*pipeline.Result, error) {
	list, err := s.svc.List(r.Context())
	if err != nil {
		return nil, err
	}
	opts := s.chart
	opts.Formats = []string{format}
	opts.Now = s.now()
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}
	opts.Detailed = opts.Detailed || r.URL.Query().Get("detailed") == "true"
	return s.runner.Execute(r.Context(), list, opts)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, _, err := s.filtered(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, terrors.New(terrors.ErrCodeTooLarge, "request body too large (limit %d bytes)", tooLarge.Limit))
			return
		}
		writeError(w, r, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	var e directory.Employee
	if err := json.Unmarshal(body, &e); err != nil {
		writeError(w, r, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "decode employee"))
		return
	}
	e.ID = 0

	created, err := s.svc.Create(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("employee added", "id", created.ID, "name", created.Name(), "request_id", RequestID(r.Context()))
	w.Header().Set("Location", "/api/employees/"+strconv.Itoa(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("employee removed", "id", id, "request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("directory cleared", "request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, terrors.New(terrors.ErrCodeInvalidInput, "invalid employee id %q", raw)
	}
	return id, nil
}
