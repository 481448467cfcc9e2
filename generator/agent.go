package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Agent 负责把 Request 变成三条 Reel 创意。
type Agent struct {
	llm    LLMClient
	logger *zap.Logger
}

func NewAgent(llm LLMClient, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// Generate 校验请求，调用一次模型并解析结果。
// 错误类型为 *ValidationError 或 *GenerationError。
func (a *Agent) Generate(ctx context.Context, req Request) (IdeasResponse, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return IdeasResponse{}, err
	}

	prompt := BuildPrompt(req)
	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("llm call failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return IdeasResponse{}, transportError(err)
	}

	ideas, err := ParseIdeas(raw)
	if err != nil {
		a.logger.Warn("llm response rejected",
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return IdeasResponse{}, err
	}
	a.logger.Debug("ideas generated",
		zap.String("category", req.Category),
		zap.Bool("reference_link", req.ReferenceLink != ""),
		zap.Duration("elapsed", time.Since(start)))
	return ideas, nil
}
