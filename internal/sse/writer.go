package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"deep-detective-go/internal/model"
)

// Writer SSE写入器
// 调查进行中把进度行推给前端，结束时推完整结果
type Writer struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	mu        sync.Mutex
	stopHeart chan struct{}
}

func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	writer := &Writer{
		w:         w,
		flusher:   flusher,
		stopHeart: make(chan struct{}),
	}

	// 启动心跳
	go writer.heartbeat()

	return writer, nil
}

// heartbeat 定期发送心跳保持连接
func (s *Writer) heartbeat() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.send(map[string]interface{}{"status": "heartbeat"})
		case <-s.stopHeart:
			return
		}
	}
}

// StopHeartbeat 停止心跳
func (s *Writer) StopHeartbeat() {
	close(s.stopHeart)
}

func (s *Writer) send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// SendProgress 推送一行进度日志
func (s *Writer) SendProgress(line string) error {
	return s.send(map[string]interface{}{
		"status":  "progress",
		"message": line,
	})
}

// SendResult 推送最终调查结果
func (s *Writer) SendResult(resp *model.InvestigationResponse) error {
	return s.send(map[string]interface{}{
		"status": "done",
		"result": resp,
	})
}

// SendError 推送全局错误
func (s *Writer) SendError(msg string) error {
	return s.send(map[string]interface{}{
		"status": "error",
		"error":  msg,
	})
}
