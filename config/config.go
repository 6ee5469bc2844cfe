package config

import (
	"os"
)

// Config 应用配置
type Config struct {
	Port        string
	TavilyKey   string
	GeminiKey   string
	GeminiModel string
}

// Load 从环境变量加载配置
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		TavilyKey:   getEnv("TAVILY_API_KEY", ""),
		GeminiKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
