package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// JobStatus returns the job's status document.
func (h *Handlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	st, err := h.Store.ReadStatus(jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// JobNouns returns the filtered, sorted, dictionary-annotated noun list.
func (h *Handlers) JobNouns(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	query := r.URL.Query().Get("query")
	sortParam := r.URL.Query().Get("sort")

	nouns, err := h.Query.JobNouns(jobID, query, sortParam)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nouns)
}

// NounOccurrences returns one noun's occurrences, page then line order.
func (h *Handlers) NounOccurrences(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	noun := chi.URLParam(r, "noun")

	occ, err := h.Query.NounOccurrences(jobID, noun)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occ)
}

// markRequest is the body for mark add and toggle.
type markRequest struct {
	Noun     string `json:"noun"`
	Page     int    `json:"page"`
	Line     int    `json:"line"`
	Sentence string `json:"sentence"`
}

func decodeMarkRequest(r *http.Request) (*markRequest, error) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.InvalidArgument("invalid mark body: %v", err)
	}
	return &req, nil
}

// ListMarks returns all marks of a job.
func (h *Handlers) ListMarks(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	marks, err := h.Marks.List(jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

// AddMark creates a mark; duplicate add is a no-op success.
func (h *Handlers) AddMark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	req, err := decodeMarkRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mark, err := h.Marks.Add(jobID, req.Noun, req.Page, req.Line, req.Sentence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mark)
}

// ToggleMark flips a mark's presence.
func (h *Handlers) ToggleMark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	req, err := decodeMarkRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Marks.Toggle(jobID, req.Noun, req.Page, req.Line, req.Sentence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
