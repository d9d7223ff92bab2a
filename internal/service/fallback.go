package service

import (
	"fmt"
	"strings"

	"chatcore-go/internal/model"
)

// 回退回复的关键词表，按声明顺序检查，首个命中生效。
var (
	greetingWords  = []string{"hello", "hi", "hey", "good morning", "good evening"}
	howAreYouWords = []string{"how are you", "how r u"}
	helpWords      = []string{"help", "what can you do"}
	thanksWords    = []string{"thank", "thanks"}
)

// FallbackReply 是生成式提供方缺席或失败时的确定性回复生成器。
// 它是 (消息, 已知用户名) 的纯函数，所有回复把已知用户名插入固定的问候槽位。
func FallbackReply(message, userName string) model.ResponseEnvelope {
	lower := strings.ToLower(message)
	nameGreeting := ""
	if userName != "" {
		nameGreeting = " " + userName
	}

	switch {
	case containsAny(lower, greetingWords):
		return fallbackEnvelope(
			fmt.Sprintf("👋 Hello%s! I'm your AI assistant. How can I help you today?", nameGreeting), "👋")

	case containsAny(lower, howAreYouWords):
		return fallbackEnvelope(
			fmt.Sprintf("I'm doing great%s! Ready to help. What would you like to know?", nameGreeting), "😊")

	case containsAny(lower, helpWords):
		return fallbackEnvelope(
			"I can help you with:\n\n📚 Search Wikipedia for information\n💬 Answer questions\n🤔 General conversation\n\nWhat would you like to explore?", "💡")

	case containsAny(lower, thanksWords):
		return fallbackEnvelope(
			fmt.Sprintf("You're welcome%s! Happy to help anytime! 😊", nameGreeting), "😊")

	case strings.Contains(message, "?"):
		return fallbackEnvelope(
			"That's an interesting question! Try asking about specific topics and I'll search Wikipedia for accurate information.", "🤔")

	default:
		return fallbackEnvelope(
			fmt.Sprintf("I understand%s! Feel free to ask me anything, especially factual topics I can research for you.", nameGreeting), "💬")
	}
}

func fallbackEnvelope(text, emoji string) model.ResponseEnvelope {
	return model.ResponseEnvelope{
		Text:   text,
		Source: model.SourceFallback,
		Emoji:  emoji,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
