package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// DownloadDict serves the custom dictionary file as plain text.
func (h *Handlers) DownloadDict(w http.ResponseWriter, r *http.Request) {
	path := h.Lexicon.DictPath()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, r, apperrors.NotFound("dictionary"))
			return
		}
		writeError(w, r, err)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="custom_dict.txt"`)
	_, _ = io.Copy(w, f)
}

// UploadDict replaces the whole dictionary file and reloads resources
// before returning.
func (h *Handlers) UploadDict(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperrors.InvalidArgument("missing file field"))
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, r, apperrors.InvalidArgument("missing filename"))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Lexicon.Replace(content); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "dictionary updated", "size": len(content)})
}

// DictWords lists the dictionary words, deduplicated and sorted.
func (h *Handlers) DictWords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Lexicon.Current()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"words": snap.Words()})
}

// wordRequest is the body for dictionary add. The word may also come from
// the query string for form-less clients.
type wordRequest struct {
	Word string `json:"word"`
}

func wordFromRequest(r *http.Request) string {
	if w := r.URL.Query().Get("word"); w != "" {
		return w
	}
	var req wordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.Word
	}
	return ""
}

// AddDictWord appends a word to the dictionary.
func (h *Handlers) AddDictWord(w http.ResponseWriter, r *http.Request) {
	word := wordFromRequest(r)
	added, err := h.Lexicon.Add(word)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

// RemoveDictWord deletes a word from the dictionary.
func (h *Handlers) RemoveDictWord(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if err := h.Lexicon.Remove(word); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
