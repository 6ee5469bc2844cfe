package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"deep-detective-go/config"
	"deep-detective-go/internal/handler"
	"deep-detective-go/internal/service"
)

func main() {
	// 加载 .env 文件（如果存在）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// 验证必要的API keys
	if cfg.TavilyKey == "" {
		log.Println("Warning: TAVILY_API_KEY not configured, web searches will return no evidence")
	}
	if cfg.GeminiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not configured, analysis will fall back to degraded reports")
	}

	// 创建调查服务
	investigationService := service.NewInvestigationService(cfg.TavilyKey, cfg.GeminiKey, cfg.GeminiModel)

	// 创建处理器
	investigateHandler := handler.NewInvestigateHandler(investigationService)

	// 设置路由
	mux := http.NewServeMux()
	mux.HandleFunc("/", investigateHandler.Root)
	mux.HandleFunc("/health", investigateHandler.Health)
	mux.HandleFunc("/api/investigate", investigateHandler.Investigate)
	mux.HandleFunc("/api/investigate/sse", investigateHandler.InvestigateSSE)

	// CORS中间件
	corsHandler := corsMiddleware(mux)

	log.Printf("Deep Detective API server running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		log.Fatal(err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
