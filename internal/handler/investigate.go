package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"deep-detective-go/internal/service"
	"deep-detective-go/internal/sse"
)

// Version API版本号
const Version = "1.0.0"

// InvestigateRequest 调查请求参数
type InvestigateRequest struct {
	Target string `json:"target"`
}

// errorResponse 统一的错误响应
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// InvestigateHandler 调查HTTP处理器
type InvestigateHandler struct {
	service *service.InvestigationService
}

// NewInvestigateHandler 创建处理器
func NewInvestigateHandler(svc *service.InvestigationService) *InvestigateHandler {
	return &InvestigateHandler{service: svc}
}

// Root 服务信息
// GET /
func (h *InvestigateHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "Deep Detective API is running",
		"version": Version,
		"endpoints": map[string]string{
			"investigate": "POST /api/investigate",
		},
	})
}

// Health 健康检查
// GET /health
func (h *InvestigateHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "Deep Detective API is running",
	})
}

// Investigate 处理调查请求
// POST /api/investigate
// Body: {"target": "Dogecoin"}
func (h *InvestigateHandler) Investigate(w http.ResponseWriter, r *http.Request) {
	// 兜底：管线内部的意外panic映射成500，不让进程挂掉
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Investigation panic: %v", rec)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Success: false,
				Error:   "Internal server error during investigation",
			})
		}
	}()

	target, ok := decodeTarget(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Error:   "Target is required",
		})
		return
	}

	log.Printf("Starting investigation for: %s", target)
	resp := h.service.Investigate(r.Context(), target)
	log.Printf("Investigation completed for: %s (score: %d)", target, resp.Report.Score)

	writeJSON(w, http.StatusOK, resp)
}

// InvestigateSSE 处理SSE调查请求：先流式推进度，最后推完整结果
// POST /api/investigate/sse
func (h *InvestigateHandler) InvestigateSSE(w http.ResponseWriter, r *http.Request) {
	target, ok := decodeTarget(r)
	if !ok {
		http.Error(w, "target is required", http.StatusBadRequest)
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	defer writer.StopHeartbeat()

	// 兜底：管线内部的意外panic转成error事件，不让进程挂掉
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("SSE investigation panic: %v", rec)
			writer.SendError("Internal server error during investigation")
		}
	}()

	log.Printf("Starting SSE investigation for: %s", target)

	resp := h.service.InvestigateWithProgress(r.Context(), target, func(line string) {
		writer.SendProgress(line)
	})
	writer.SendResult(resp)

	log.Printf("SSE investigation completed for: %s", target)
}

// decodeTarget 解析并校验请求体，返回trim后的目标
// target缺失、非字符串、或trim后为空都算校验失败
func decodeTarget(r *http.Request) (string, bool) {
	var req InvestigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", false
	}

	target := strings.TrimSpace(req.Target)
	if target == "" {
		return "", false
	}
	return target, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
