// Package handler internal/infrastructure/handler/export_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	appservice "github.com/damon-houk/fx-timeseries-export/internal/application/service"
	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/excel"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles HTTP requests for rate previews and workbook downloads
type ExportHandler struct {
	service   *appservice.ExportService
	workbooks *excel.WorkbookWriter
	logger    logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *appservice.ExportService, workbooks *excel.WorkbookWriter, log logger.Logger) *ExportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExportHandler{
		service:   service,
		workbooks: workbooks,
		logger:    log,
	}
}

// PreviewRates handles the JSON preview endpoint
func (h *ExportHandler) PreviewRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query, perr := h.parseQuery(r)
	if perr != nil {
		sendErrorResponse(w, h.logger, perr.title, perr.detail, http.StatusBadRequest, requestID)
		return
	}

	result, err := h.service.BuildExport(r.Context(), query)
	if err != nil {
		h.respondError(w, requestID, query, err)
		return
	}

	resp := newPreviewResponse(result)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode preview response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// ExportWorkbook handles the xlsx download endpoint
func (h *ExportHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query, perr := h.parseQuery(r)
	if perr != nil {
		sendErrorResponse(w, h.logger, perr.title, perr.detail, http.StatusBadRequest, requestID)
		return
	}

	result, err := h.service.BuildExport(r.Context(), query)
	if err != nil {
		h.respondError(w, requestID, query, err)
		return
	}

	data, err := h.workbooks.Write(result.Table, result.Meta, result.Stats)
	if err != nil {
		h.logger.Error("Failed to build workbook", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Export failed",
			"The workbook could not be generated. Please try again later.",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Workbook exported", map[string]interface{}{
		"request_id": requestID,
		"filename":   excel.Filename(result.Meta),
		"bytes":      len(data),
	})

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", excel.Filename(result.Meta)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write workbook response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// respondError maps pipeline errors onto HTTP statuses. Invalid ranges are
// the user's fault, empty results are reported as not found, everything that
// went wrong upstream is a bad gateway; nothing is retried.
func (h *ExportHandler) respondError(w http.ResponseWriter, requestID string, query appservice.ExportQuery, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidRange):
		h.logger.Warn("Invalid date range", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid date range",
			"Start date must be on or before end date.", http.StatusBadRequest, requestID)

	case errors.Is(err, entity.ErrNoData):
		h.logger.Warn("No data for query", map[string]interface{}{
			"request_id": requestID,
			"base":       query.Base,
		})
		sendErrorResponse(w, h.logger, "No data returned",
			"No rates were returned for the requested range (or the base currency is not present in the response). Try a different period or currencies.",
			http.StatusNotFound, requestID)

	case errors.Is(err, entity.ErrMalformedSeries):
		h.logger.Error("Malformed upstream payload", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Unexpected upstream response",
			"The rates provider returned a payload this service could not interpret.",
			http.StatusBadGateway, requestID)

	default:
		h.logger.Error("Could not retrieve data", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Could not retrieve data",
			err.Error(), http.StatusBadGateway, requestID)
	}
}

type paramError struct {
	title  string
	detail string
}

// parseQuery validates and converts the request parameters. Only basic sanity
// is enforced here; range ordering is the range service's concern.
func (h *ExportHandler) parseQuery(r *http.Request) (appservice.ExportQuery, *paramError) {
	var query appservice.ExportQuery

	q := r.URL.Query()

	base := strings.ToUpper(strings.TrimSpace(q.Get("base")))
	if base == "" {
		return query, &paramError{"Missing base currency", "The 'base' query parameter is required."}
	}
	if len(base) != 3 {
		return query, &paramError{"Invalid base currency", "Currency codes have 3 characters (e.g. GBP, EUR)."}
	}

	// The form submits symbols as repeated parameters, API clients may pass a
	// comma separated list; both are accepted.
	symbols := q["symbols"]
	if len(symbols) == 0 {
		return query, &paramError{"Missing target currencies", "The 'symbols' query parameter is required (comma separated, e.g. EUR,USD,CHF)."}
	}

	var targets []string
	for _, raw := range symbols {
		for _, s := range strings.Split(raw, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if len(s) != 3 {
				return query, &paramError{"Invalid target currency", fmt.Sprintf("%q is not a 3-letter currency code.", s)}
			}
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 {
		return query, &paramError{"Missing target currencies", "Choose at least one target currency."}
	}

	mode := entity.RangeMode(q.Get("mode"))
	if mode == "" {
		mode = entity.ModeLastMonth
	}
	if !mode.Valid() {
		return query, &paramError{"Invalid period mode", "Mode must be one of this_month, last_month, custom."}
	}

	var start, end time.Time
	if mode == entity.ModeCustom {
		var err error
		if start, err = time.Parse(entity.ISODate, q.Get("start")); err != nil {
			return query, &paramError{"Invalid start date", "Custom mode requires 'start' in YYYY-MM-DD format."}
		}
		if end, err = time.Parse(entity.ISODate, q.Get("end")); err != nil {
			return query, &paramError{"Invalid end date", "Custom mode requires 'end' in YYYY-MM-DD format."}
		}
	}

	var throttle time.Duration
	if raw := q.Get("throttle"); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil || seconds < 0 {
			return query, &paramError{"Invalid throttle", "Throttle is a non-negative number of seconds."}
		}
		throttle = time.Duration(seconds * float64(time.Second))
	}

	query = appservice.ExportQuery{
		Base:     base,
		Targets:  targets,
		Mode:     mode,
		Start:    start,
		End:      end,
		Throttle: throttle,
	}

	return query, nil
}

// RegisterRoutes registers the export handler routes
func (h *ExportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/rates", h.PreviewRates).Methods("GET")
	router.HandleFunc("/api/export", h.ExportWorkbook).Methods("GET")

	h.logger.Info("Export routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/rates",
			"GET /api/export",
		},
	})
}

// sendErrorResponse writes the standardized error envelope
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, status int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to encode error response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}
