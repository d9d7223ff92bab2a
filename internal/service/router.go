package service

import (
	"context"
	"fmt"
	"time"

	"chatcore-go/internal/model"
	"chatcore-go/pkg/log"
)

// 代码生成的提示词模板，要求完整代码、注释与示例用法。
const codePromptTemplate = `Generate clean, well-commented code for: %s

Please provide:
1. Complete, functional code
2. Clear comments
3. Example usage

Format with markdown code blocks.`

// ResponseRouter 是顶层的响应编排器：对消息做意图分类，
// 按知识源 → 生成源 → 回退的优先级分发，并总是返回一个 ResponseEnvelope。
type ResponseRouter interface {
	Respond(ctx context.Context, sessionID, message string) model.ResponseEnvelope
}

type responseRouter struct {
	knowledge  KnowledgeSource
	generative GenerativeSource
	tracker    ContextTracker
	// extTimeout 约束每次外部调用（知识源 / 生成源）的时长。
	extTimeout time.Duration
}

// NewResponseRouter 创建一个新的 ResponseRouter 实例。
func NewResponseRouter(knowledge KnowledgeSource, generative GenerativeSource, tracker ContextTracker, extTimeout time.Duration) ResponseRouter {
	return &responseRouter{
		knowledge:  knowledge,
		generative: generative,
		tracker:    tracker,
		extTimeout: extTimeout,
	}
}

// Respond 执行三级意图级联，首个命中生效。
// 任何未预期的故障都在此边界被捕获并转换为 source=error 的信封，决不向外抛出。
func (r *responseRouter) Respond(ctx context.Context, sessionID, message string) (env model.ResponseEnvelope) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("响应路由器内部故障: %v", rec)
			env = model.ResponseEnvelope{
				Text:   "I'm having trouble processing your request. Could you try rephrasing that?",
				Source: model.SourceError,
				Emoji:  "⚠️",
			}
		}
	}()

	switch {
	case isKnowledgeQuery(message):
		return r.respondKnowledge(ctx, message)
	case isCodeRequest(message):
		return r.respondCode(ctx, message)
	default:
		return r.respondConversation(ctx, sessionID, message)
	}
}

// respondKnowledge 将原始消息交给知识源，结果总是可用文本（含降级文案）。
func (r *responseRouter) respondKnowledge(ctx context.Context, message string) model.ResponseEnvelope {
	callCtx, cancel := context.WithTimeout(ctx, r.extTimeout)
	defer cancel()

	text := r.knowledge.Lookup(callCtx, message)
	return model.ResponseEnvelope{
		Text:   text,
		Source: model.SourceKnowledge,
		Emoji:  "🔍",
	}
}

// respondCode 处理代码生成请求。生成源缺席或调用失败都返回 error 信封，
// 不落入回退回复——回退无法生成代码。
func (r *responseRouter) respondCode(ctx context.Context, message string) model.ResponseEnvelope {
	if !r.generative.Available() {
		return model.ResponseEnvelope{
			Text:   "Code generation requires a generative provider to be configured.",
			Source: model.SourceError,
			Emoji:  "💻",
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.extTimeout)
	defer cancel()

	text, err := r.generative.Generate(callCtx, fmt.Sprintf(codePromptTemplate, message))
	if err != nil {
		log.Error("代码生成调用失败", err)
		return model.ResponseEnvelope{
			Text:   "Code generation requires a working generative provider, and the call just failed. Please try again later.",
			Source: model.SourceError,
			Emoji:  "💻",
		}
	}

	return model.ResponseEnvelope{
		Text:   fmt.Sprintf("**Code Generated**\n\n%s", text),
		Source: model.SourceGenerativeCode,
		Emoji:  "💻",
	}
}

// respondConversation 用上下文增强的提示词调用生成源；
// 生成源缺席、出错或产出为空时落入确定性回退。
func (r *responseRouter) respondConversation(ctx context.Context, sessionID, message string) model.ResponseEnvelope {
	if r.generative.Available() {
		callCtx, cancel := context.WithTimeout(ctx, r.extTimeout)
		defer cancel()

		prompt := r.tracker.BuildPrompt(sessionID, message)
		text, err := r.generative.Generate(callCtx, prompt)
		if err == nil && text != "" {
			return model.ResponseEnvelope{
				Text:   text,
				Source: model.SourceGenerative,
				Emoji:  "🤖",
			}
		}
		if err != nil {
			log.Error("生成式调用失败，落入回退回复", err)
		}
	}

	return FallbackReply(message, r.tracker.KnownName(sessionID))
}
