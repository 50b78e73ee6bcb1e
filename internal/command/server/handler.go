package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/sources"
)

// RenderRequest POST /render 请求体。
type RenderRequest struct {
	Template string         `json:"template"`
	Values   map[string]any `json:"values,omitempty"` // 优先于服务端值源
}

// RenderResponse POST /render 响应体。
type RenderResponse struct {
	Result string `json:"result"`
}

// ScanRequest POST /scan 请求体。
type ScanRequest struct {
	Template string `json:"template"`
}

// ScanResponse POST /scan 响应体。
type ScanResponse struct {
	Placeholders []simplate.Placeholder `json:"placeholders"`
}

// ErrorResponse 错误响应体。
type ErrorResponse struct {
	Error       string   `json:"error"`
	Name        string   `json:"name,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type handler struct {
	engine  *simplate.Engine
	lookups []simplate.Lookup
	maxBody int64
}

func newHandler(engine *simplate.Engine, lookups []simplate.Lookup, maxBody int64) http.Handler {
	h := &handler{engine: engine, lookups: lookups, maxBody: maxBody}

	mux := http.NewServeMux()
	// 健康检查端点
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /render", h.render)
	mux.HandleFunc("POST /scan", h.scan)

	return mux
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !h.decode(w, r, &req) {
		return
	}

	lookups := h.lookups
	if len(req.Values) > 0 {
		values, err := sources.FromMap(req.Values)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})

			return
		}
		lookups = append([]simplate.Lookup{values}, h.lookups...)
	}

	result, err := h.engine.Process(req.Template, lookups...)
	if err != nil {
		writeProcessError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{Result: result})
}

func (h *handler) scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !h.decode(w, r, &req) {
		return
	}

	placeholders, err := simplate.Scan(req.Template)
	if err != nil {
		writeProcessError(w, err)

		return
	}
	if placeholders == nil {
		placeholders = []simplate.Placeholder{}
	}

	writeJSON(w, http.StatusOK, ScanResponse{Placeholders: placeholders})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Error: "invalid request body: " + err.Error()})

		return false
	}

	return true
}

// writeProcessError 未闭合的占位符属于请求错误 (400)，其余展开失败返回 422。
func writeProcessError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var unknown *simplate.UnknownTokenError
	if errors.As(err, &unknown) {
		resp.Name = unknown.Name
		resp.Suggestions = unknown.Suggestions
	}

	status := http.StatusUnprocessableEntity
	if errors.Is(err, simplate.ErrMalformedPlaceholder) {
		status = http.StatusBadRequest
	}

	slog.Debug("Template expansion failed", "status", status, "error", err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Write response failed", "error", err)
	}
}
