package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/davidenochk/symgraph/internal/ingestion"
	"github.com/davidenochk/symgraph/internal/store"
	minioclient "github.com/davidenochk/symgraph/internal/store/minio"
	"github.com/davidenochk/symgraph/pkg/apierr"
)

// BundleHandler accepts metadata bundle uploads and enqueues resolve jobs.
type BundleHandler struct {
	logger   *slog.Logger
	store    *store.Store
	minio    *minioclient.Client
	producer *ingestion.Producer
}

func NewBundleHandler(logger *slog.Logger, s *store.Store, minio *minioclient.Client, producer *ingestion.Producer) *BundleHandler {
	return &BundleHandler{logger: logger, store: s, minio: minio, producer: producer}
}

func (h *BundleHandler) Upload(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	// Max 100MB upload
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024*1024)

	project, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	file, header, err := r.FormFile("bundle")
	if err != nil {
		writeAPIError(w, h.logger, apierr.BundleRequired())
		return
	}
	defer file.Close()

	uploadID := uuid.New().String()
	bundleKey := fmt.Sprintf("%s/%s/%s", project.Slug, uploadID, header.Filename)

	if err := h.minio.UploadBundle(r.Context(), bundleKey, file, header.Size); err != nil {
		writeAPIError(w, h.logger, apierr.BundleUploadFailed(err))
		return
	}

	msg := ingestion.ResolveMessage{
		ProjectID:  project.ID,
		BundleKey:  bundleKey,
		SourceType: "upload",
		Trigger:    "api",
	}
	msgID, err := h.producer.Enqueue(r.Context(), msg)
	if err != nil {
		writeAPIError(w, h.logger, apierr.EnqueueFailed(err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"bundle_key": bundleKey,
		"message_id": msgID,
	})
}
