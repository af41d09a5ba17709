// Package handler internal/infrastructure/handler/page_handler.go
package handler

import (
	"html/template"
	"net/http"

	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// commonCurrencies mirrors the currency picker choices of the original tool
var commonCurrencies = []string{
	"AUD", "BRL", "CAD", "CHF", "CNY", "CZK", "DKK", "EUR", "GBP", "HKD",
	"HUF", "INR", "JPY", "MXN", "NOK", "NZD", "PLN", "SEK", "SGD", "TRY",
	"USD", "ZAR",
}

// PageHandler serves the single interactive page
type PageHandler struct {
	tmpl   *template.Template
	logger logger.Logger
}

// NewPageHandler creates the page handler, parsing the embedded template
func NewPageHandler(log logger.Logger) *PageHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &PageHandler{
		tmpl:   template.Must(template.New("index").Parse(indexTemplate)),
		logger: log,
	}
}

type pageData struct {
	Currencies     []string
	DefaultBase    string
	DefaultTargets map[string]bool
}

// Index renders the query form
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Currencies:  commonCurrencies,
		DefaultBase: "GBP",
		DefaultTargets: map[string]bool{
			"EUR": true,
			"USD": true,
			"CHF": true,
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.Error("Failed to render page", map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"error":      err.Error(),
		})
	}
}

// RegisterRoutes registers the page route
func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>FX Timeseries Downloader</title>
  <style>
    body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
    label { display: block; margin-top: 1rem; font-weight: bold; }
    select[multiple] { height: 10rem; }
    .custom-dates { margin-left: 1.5rem; }
    button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
  </style>
</head>
<body>
  <h1>FX Timeseries Downloader</h1>
  <p>Query historical FX rates for a chosen period and export to Excel.</p>

  <form action="/api/export" method="get">
    <label for="base">Base currency</label>
    <select id="base" name="base">
      {{range .Currencies}}<option value="{{.}}"{{if eq . $.DefaultBase}} selected{{end}}>{{.}}</option>
      {{end}}
    </select>

    <label for="symbols">Target currencies</label>
    <select id="symbols" name="symbols" multiple>
      {{range .Currencies}}<option value="{{.}}"{{if index $.DefaultTargets .}} selected{{end}}>{{.}}</option>
      {{end}}
    </select>

    <label>Period</label>
    <input type="radio" id="mode-this" name="mode" value="this_month"> <label for="mode-this" style="display:inline;font-weight:normal">This month</label><br>
    <input type="radio" id="mode-last" name="mode" value="last_month" checked> <label for="mode-last" style="display:inline;font-weight:normal">Last month</label><br>
    <input type="radio" id="mode-custom" name="mode" value="custom"> <label for="mode-custom" style="display:inline;font-weight:normal">Custom</label>

    <div class="custom-dates">
      <label for="start">Start date</label>
      <input type="date" id="start" name="start">
      <label for="end">End date</label>
      <input type="date" id="end" name="end">
    </div>

    <label for="throttle">Request throttle (seconds)</label>
    <input type="number" id="throttle" name="throttle" min="0" max="2" step="0.1" value="0">

    <br>
    <button type="submit">Fetch rates</button>
  </form>
</body>
</html>
`
