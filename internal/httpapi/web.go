package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed web
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/templates/index.html"))

type indexPage struct {
	Title string
	Model string
}

// indexHandler renders the landing page. It never touches the model.
func indexHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexPage{Title: pageTitle, Model: pageModel}); err != nil {
		log := requestLogger(r)
		log.Error().Err(err).Msg("render index")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
