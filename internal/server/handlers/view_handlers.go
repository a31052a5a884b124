package handlers

import (
	"net/http"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", "Generate", pageView{})
}
