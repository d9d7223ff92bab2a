package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatcore-go/pkg/llm"
)

// ErrGenerativeUnavailable 表示进程没有配置任何生成式提供方。
var ErrGenerativeUnavailable = errors.New("no generative provider configured")

// GenerativeSource 抽象了可选的生成式文本提供方。
// 启动时根据配置选定 Available / Unavailable 两种实现之一并注入，
// 业务逻辑不做零散的可用性开关判断。
type GenerativeSource interface {
	// Available 报告提供方是否可用。
	Available() bool
	// Generate 为给定提示词生成文本。不可用的实现固定返回 ErrGenerativeUnavailable。
	Generate(ctx context.Context, prompt string) (string, error)
}

// llmGenerativeSource 将 pkg/llm 客户端适配为 GenerativeSource。
type llmGenerativeSource struct {
	client llm.Client
}

// NewGenerativeSource 用一个已配置好的 LLM 客户端创建可用的生成源。
func NewGenerativeSource(client llm.Client) GenerativeSource {
	return &llmGenerativeSource{client: client}
}

func (s *llmGenerativeSource) Available() bool {
	return true
}

func (s *llmGenerativeSource) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generative provider call failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// unavailableSource 是没有配置提供方时使用的空实现。
type unavailableSource struct{}

// NewUnavailableSource 创建一个总是报告不可用的生成源。
func NewUnavailableSource() GenerativeSource {
	return unavailableSource{}
}

func (unavailableSource) Available() bool {
	return false
}

func (unavailableSource) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrGenerativeUnavailable
}
