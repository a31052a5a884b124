package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-comic-kit/internal/metrics"
	"github.com/shouni/go-comic-kit/pkg/domain"
)

const (
	msgInvalidPrompt = "Please enter a valid comic idea."
	msgStoryFailed   = "Failed to generate story. Please try again."
	msgNoBeats       = "Story generation produced no meaningful parts."
	msgNoPanels      = "Failed to generate any comic panels."
)

// HandleSubmit はフォームのアイデアから漫画を生成し、パネルをページ内に表示します。
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	view := pageView{Prompt: strings.TrimSpace(r.FormValue("prompt"))}
	if view.Prompt == "" {
		view.Warnings = append(view.Warnings, msgInvalidPrompt)
		h.render(w, http.StatusBadRequest, "index.html", "Generate", view)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	res, err := h.generator.Generate(ctx, view.Prompt)
	metrics.ObserveGeneration(start, err)
	if err != nil {
		slog.ErrorContext(ctx, "Comic generation failed", "prompt", view.Prompt, "error", err)
		status, msg := http.StatusBadGateway, msgStoryFailed
		switch {
		case errors.Is(err, domain.ErrEmptyInput):
			status, msg = http.StatusBadRequest, msgInvalidPrompt
		case errors.Is(err, domain.ErrNoBeats):
			msg = msgNoBeats
		}
		view.Errors = append(view.Errors, msg)
		h.render(w, status, "index.html", "Generate", view)
		return
	}

	for _, r := range res.Results {
		for _, name := range r.Fallbacks {
			view.Warnings = append(view.Warnings, fmt.Sprintf("Falling back to %s for: %s", name, r.Beat.Text))
		}
	}
	for _, f := range res.Results.Failures() {
		view.Errors = append(view.Errors, fmt.Sprintf("Failed to create panel for: %s", f.Beat.Text))
	}

	panels, encErrs := toPanelViews(res.Panels())
	for _, e := range encErrs {
		slog.ErrorContext(ctx, "Failed to encode panel", "error", e)
	}
	view.Panels = panels
	if len(view.Panels) == 0 {
		view.Errors = append(view.Errors, msgNoPanels)
	}

	h.render(w, http.StatusOK, "index.html", "Your Comic", view)
}
