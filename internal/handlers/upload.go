package handlers

import (
	"context"
	"encoding/base64"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"imagenet-web/internal/classify"
	"imagenet-web/internal/imaging"
	"imagenet-web/internal/storage"
)

// Limit file size to 10MB
const maxUploadBytes = 10 * 1024 * 1024

type predictionPage struct {
	Filename    string
	Image       template.URL
	Predictions []classify.Prediction
}

// HandleUpload runs the upload pipeline: sniff, store, classify, render.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file1")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	// The client filename is untrusted; only the sniffed format decides.
	format, err := imaging.Sniff(fileData)
	if err != nil {
		slog.Info("Not a valid filetype", "filename", header.Filename)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := storage.RandomName(format)
	path, err := h.store.Save(name, fileData)
	if err != nil {
		slog.Error("Failed to save upload", "filename", name, "err", err)
		http.Error(w, "Failed to save upload", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.classifyTimeout)
	defer cancel()

	predictions, err := h.classifier.Classify(ctx, path, h.topN)
	if err != nil {
		slog.Error("Classification failed", "filename", name, "err", err)
		http.Error(w, "Classification failed", http.StatusInternalServerError)
		return
	}

	slog.Info("Upload classified", "filename", name, "predictions", len(predictions))

	h.render(w, "prediction.html", predictionPage{
		Filename:    name,
		Image:       template.URL("data:" + format.MIME() + ";base64," + base64.StdEncoding.EncodeToString(fileData)),
		Predictions: predictions,
	})
}
