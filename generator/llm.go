package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
// 实现需要把输出约束为 ResponseSchema。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// DefaultGeminiModel 未配置 model 时使用。
const DefaultGeminiModel = "gemini-2.5-flash"
