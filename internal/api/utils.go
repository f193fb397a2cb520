package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

// Response envelope. Lists add pagination, failures carry only message.
type apiResponse struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, p model.Pagination) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data, Pagination: &p})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Message: msg})
}

func decodeJSON(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func parsePageLimit(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page = 1
	if s := q.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			page = v
		}
	}
	limit = model.DefaultPageLimit
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	return
}

// filterParam strips the board's "all" sentinel at the wire edge so it
// never reaches the query layer as a literal value.
func filterParam(r *http.Request, key string) string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if strings.EqualFold(v, consts.FilterAll) {
		return ""
	}
	return v
}

func parseTimeParam(r *http.Request, key string) *time.Time {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t
	}
	return nil
}

func parseTagsParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return model.NormalizeTags(strings.Split(raw, ","))
}
