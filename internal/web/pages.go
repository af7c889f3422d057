package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpage/internal/ics"
	appLog "eventpage/internal/log"
	"eventpage/internal/model"
	"eventpage/internal/view"
)

type indexData struct {
	Cards []view.SummaryPage
}

type detailData struct {
	Page        view.DetailPage
	HasSchedule bool
}

// handleIndex renders the summary card of every catalog record.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	cat := s.store.Catalog()

	data := indexData{Cards: make([]view.SummaryPage, 0, cat.Len())}
	for _, ev := range cat.Events {
		data.Cards = append(data.Cards, view.BuildSummary(ev))
	}

	s.render(w, "index.html", data)
	s.metrics.PageRenders.WithLabelValues(view.Summary.String()).Inc()
}

// handleDetail renders one record's detail view. The page's script
// scrolls to the top on load and returns to the index on a pointer-down
// outside #event-detail.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	cat := s.store.Catalog()
	ev, err := cat.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, "detail.html", detailData{
		Page:        view.BuildDetail(ev, cat.Gallery),
		HasSchedule: ev.StartsAt != nil,
	})
	s.metrics.PageRenders.WithLabelValues(view.Detail.String()).Inc()
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, err := s.store.Catalog().Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	body, err := ics.Export(ev, s.now())
	if errors.Is(err, ics.ErrNoSchedule) {
		http.Error(w, "event has no schedule", http.StatusNotFound)
		return
	}
	if err != nil {
		appLog.Error("calendar export failed", err, "id", id)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.ics"`)
	_, _ = w.Write([]byte(body))
	s.metrics.PageRenders.WithLabelValues("ics").Inc()
}

// render executes a template into a buffer first so a template error
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		appLog.Error("template render failed", err, "template", name)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type apiEvent struct {
	Record  model.EventRecord `json:"record"`
	Summary *view.SummaryPage `json:"summary,omitempty"`
	Detail  *view.DetailPage  `json:"detail,omitempty"`
}

type apiEventsResponse struct {
	Events  []apiEvent `json:"events"`
	Gallery []string   `json:"gallery"`
}

func (s *Server) handleAPIEvents(w http.ResponseWriter, _ *http.Request) {
	cat := s.store.Catalog()

	resp := apiEventsResponse{Events: make([]apiEvent, 0, cat.Len()), Gallery: cat.Gallery}
	for _, ev := range cat.Events {
		sum := view.BuildSummary(ev)
		resp.Events = append(resp.Events, apiEvent{Record: ev, Summary: &sum})
	}
	if resp.Gallery == nil {
		resp.Gallery = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIEvent(w http.ResponseWriter, r *http.Request) {
	cat := s.store.Catalog()
	ev, err := cat.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	d := view.BuildDetail(ev, cat.Gallery)
	writeJSON(w, http.StatusOK, apiEvent{Record: ev, Detail: &d})
}
