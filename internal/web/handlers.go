package web

import (
	"log"
	"net/http"
	"strconv"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/ops"
)

// recentOnIndex is how many serves the landing page shows.
const recentOnIndex = 5

// Handlers contains HTTP route handlers.
type Handlers struct {
	svc      *ops.Service
	renderer *Renderer
}

// HandleIndex handles GET /: the landing page with the live card.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		PageData: h.renderer.page("Cat Facts", "home"),
	}

	// A missing catalog must not take the landing page down.
	if list, err := h.svc.List(r.Context()); err == nil {
		data.FactCount = list.Count
	}

	if h.svc.HistoryEnabled() {
		hist, err := h.svc.History(r.Context(), ops.HistoryInput{Limit: recentOnIndex})
		if err != nil {
			log.Printf("index: history unavailable: %v", err)
		} else {
			data.Recent = hist.Items
		}
	}

	h.renderer.renderPage(w, "index", data)
}

// HandleNext handles GET /cat: the next card from the shuffle queue.
func (h *Handlers) HandleNext(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Next(r.Context(), ops.SourceHTTP)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderPNG(w, out.FactID, out.ServeID, out.PNG)
}

// HandleList handles GET /facts: every fact id in the catalog.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "facts", FactsPageData{
		PageData: h.renderer.page("Facts", "facts"),
		IDs:      result.IDs,
	})
}

// HandleDetail handles GET /facts/{id}: a single fact's caption.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.svc.Fact(r.Context(), id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "fact", FactPageData{
		PageData:     h.renderer.page("Fact "+id.String(), "facts"),
		ID:           id,
		RenderedHTML: renderMarkdown(result.Caption),
	})
}

// HandleImage handles GET /facts/{id}/image.png: render one fact on demand.
func (h *Handlers) HandleImage(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := h.svc.Render(r.Context(), id, ops.SourceHTTP)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderPNG(w, out.FactID, out.ServeID, out.PNG)
}

// HandleHistory handles GET /history: recent serves as JSON.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.History(r.Context(), ops.HistoryInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultHistoryLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderAPIError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
