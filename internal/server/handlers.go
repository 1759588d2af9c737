package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/five82/pledge/internal/donation"
	"github.com/five82/pledge/internal/sheets"
)

// Handler serves the current total read from one spreadsheet cell. It keeps
// no state between requests.
type Handler struct {
	reader        sheets.Reader
	spreadsheetID string
	cellRange     string
	timeout       time.Duration
	logger        zerolog.Logger
}

// HandlerOptions configure NewHandler.
type HandlerOptions struct {
	SpreadsheetID string
	Range         string
	Timeout       time.Duration // per provider call; zero means no extra deadline
	Logger        zerolog.Logger
}

// NewHandler builds a Handler reading opts.Range through reader.
func NewHandler(reader sheets.Reader, opts HandlerOptions) *Handler {
	return &Handler{
		reader:        reader,
		spreadsheetID: opts.SpreadsheetID,
		cellRange:     opts.Range,
		timeout:       opts.Timeout,
		logger:        opts.Logger,
	}
}

// SheetData answers GET /sheet-data. A provider failure is a 500; an empty
// range is a 200 with success=false because the endpoint itself worked.
func (h *Handler) SheetData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	rows, err := h.reader.ReadRange(ctx, h.spreadsheetID, h.cellRange)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("range", h.cellRange).
			Str("request_id", RequestIDFromContext(r.Context())).
			Msg("read spreadsheet failed")
		writeJSON(w, http.StatusInternalServerError, donation.SheetData{
			Amount:  0,
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if len(rows) == 0 {
		h.logger.Warn().Str("range", h.cellRange).Msg("range returned no rows")
		writeJSON(w, http.StatusOK, donation.SheetData{
			Amount:  0,
			Success: false,
			Error:   donation.NoDataMessage,
		})
		return
	}

	var cell any
	if len(rows[0]) > 0 {
		cell = rows[0][0]
	}
	amount := parseAmount(cell)
	h.logger.Debug().Int64("amount", amount).Msg("served amount")
	writeJSON(w, http.StatusOK, donation.SheetData{Amount: amount, Success: true})
}

// Health answers GET /healthz without touching the spreadsheet.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// parseAmount turns a cell into an integer total. Anything unreadable is 0;
// a malformed cell is never reported as an error.
func parseAmount(cell any) int64 {
	switch v := cell.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v <= math.MinInt64 {
			return 0
		}
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		return parseLeadingInt(v.String())
	case string:
		return parseLeadingInt(v)
	default:
		return 0
	}
}

// parseLeadingInt reads an optional sign and the leading run of digits after
// any whitespace, ignoring the rest: "12.7" is 12, "1,234" is 1, "Rp 5" is 0.
func parseLeadingInt(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
