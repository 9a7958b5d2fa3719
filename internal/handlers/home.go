package handlers

import (
	"log/slog"
	"net/http"
)

// HandleHome renders the widget page with whatever the relay rendered last, so a page opened in the
// middle of a request picks up from the current state.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	err := m.templates.ExecuteTemplate(w, "home.html", m.widget.pageData())
	if err != nil {
		m.logger.Error("Failed to render home page", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// HandleSSE streams relay updates to the page.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}
