package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
)

// Upload accepts a multipart document upload, creates a queued job, and
// schedules pipeline execution as a detached background task.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if h.UploadMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.UploadMaxBytes)
	}

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
	if !document.IsSupported(header.Filename) {
		writeError(w, r, apperrors.UnsupportedInput("unsupported file type (only pdf/doc/docx/ppt/pptx)"))
		return
	}

	job, err := h.Store.Create(header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Fire-and-forget: exactly one background task per job. Guard errors
	// cannot occur for a job created just above, but are logged anyway.
	go func(jobID string) {
		if err := h.Runner.Run(context.Background(), jobID); err != nil {
			h.logger().Error("background run rejected",
				zap.String("job_id", jobID),
				zap.Error(err))
		}
	}(job.JobID)

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.JobID})
}
