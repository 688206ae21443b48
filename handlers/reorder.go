// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/term-order/cliparse"
	"github.com/danielhkuo/term-order/middleware"
	"github.com/danielhkuo/term-order/models"
)

// OrderWriter is the part of the order store the reorder endpoint writes through.
type OrderWriter interface {
	Upsert(ctx context.Context, termID int64, ordinal int) error
}

type ReorderHandler struct {
	store OrderWriter
	cfg   cliparse.Config
}

func NewReorderHandler(store OrderWriter, cfg cliparse.Config) *ReorderHandler {
	return &ReorderHandler{store: store, cfg: cfg}
}

// reorderRow is one submitted row; index is its 0-based position in the list
type reorderRow struct {
	index int
	value string
}

// Save handles POST /admin/ajax
// Writes ordinal index+1 for every row. A failed row doesn't stop the batch.
func (h *ReorderHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	action, rows, err := parseReorderRequest(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if action != models.ActionSaveTermOrder {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown action: "+action)
		return
	}

	log := middleware.Logger(r.Context())
	results := make([]models.ReorderResult, 0, len(rows))
	var failures []string

	for _, row := range rows {
		termID, ok := parseTermID(row.value)
		if !ok {
			continue
		}

		result := models.ReorderResult{TermID: termID, Ordinal: row.index + 1, OK: true}
		if err := h.store.Upsert(r.Context(), termID, result.Ordinal); err != nil {
			log.Error("failed to save term order", "term_id", termID, "ordinal", result.Ordinal, "error", err)
			result.OK = false
			result.Error = err.Error()
			failures = append(failures, err.Error())
		}
		results = append(results, result)
	}

	if len(failures) > 0 {
		middleware.JSONResponse(w, http.StatusInternalServerError, models.ReorderErrorResponse{
			Msg:     strings.Join(failures, "; "),
			Errors:  failures,
			Results: results,
		})
		return
	}

	log.Info("term order saved", "terms", len(results))
	middleware.JSONResponse(w, http.StatusOK, models.ReorderResponse{Results: results})
}

// parseReorderRequest reads the action and rows from a JSON or form body
func parseReorderRequest(r *http.Request) (string, []reorderRow, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req models.ReorderRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return "", nil, err
		}
		rows := make([]reorderRow, 0, len(req.Rows))
		for i, v := range req.Rows {
			rows = append(rows, reorderRow{index: i, value: jsonRowValue(v)})
		}
		return req.Action, rows, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", nil, err
	}
	return r.Form.Get("action"), formRows(r.PostForm), nil
}

// maxIndex keeps index+1 within a 32-bit INTEGER meta_value
const maxIndex = math.MaxInt32 - 1

// maxJSONID bounds the integers a float64 JSON number holds exactly
const maxJSONID = 1 << 53

// formRows accepts rows[0]=5&rows[1]=9 or rows[]=5&rows[]=9.
// Indexed keys win when both forms are present. When several keys spell the
// same index (rows[1], rows[01], rows[+1]) the shortest key wins, then the
// lowest one.
func formRows(form url.Values) []reorderRow {
	byIndex := map[int]reorderRow{}
	keys := map[int]string{}
	for key, values := range form {
		if len(values) == 0 || !strings.HasPrefix(key, "rows[") || !strings.HasSuffix(key, "]") {
			continue
		}
		idx, err := strconv.Atoi(key[len("rows[") : len(key)-1])
		if err != nil || idx < 0 || idx > maxIndex {
			continue
		}
		if prev, seen := keys[idx]; seen && (len(prev) < len(key) || (len(prev) == len(key) && prev < key)) {
			continue
		}
		byIndex[idx] = reorderRow{index: idx, value: values[0]}
		keys[idx] = key
	}
	if len(byIndex) > 0 {
		keyed := make([]reorderRow, 0, len(byIndex))
		for _, row := range byIndex {
			keyed = append(keyed, row)
		}
		slices.SortFunc(keyed, func(a, b reorderRow) int { return a.index - b.index })
		return keyed
	}

	list := slices.Concat(form["rows[]"], form["rows"])
	rows := make([]reorderRow, 0, len(list))
	for i, v := range list {
		rows = append(rows, reorderRow{index: i, value: v})
	}
	return rows
}

func jsonRowValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x != math.Trunc(x) || x > maxJSONID || x < -maxJSONID {
			return ""
		}
		return strconv.FormatInt(int64(x), 10)
	default:
		return ""
	}
}

// parseTermID returns false for empty, non-numeric and non-positive rows
func parseTermID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
