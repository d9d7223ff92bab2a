// Package service 包含了应用的业务逻辑层。
package service

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"chatcore-go/internal/model"
)

// 每个会话保留的最近交互轮数。
const contextWindowSize = 10

// BuildPrompt 中引用的最近交互轮数与单侧文本的截断长度。
const (
	promptRecentExchanges = 3
	promptTextLimit       = 100
)

// 情绪关键词表。检测按 positive → negative → neutral 的优先级进行，首个命中生效。
var moodKeywords = []struct {
	mood     model.Mood
	keywords []string
}{
	{model.MoodPositive, []string{"great", "awesome", "love", "excited", "happy"}},
	{model.MoodNegative, []string{"sad", "angry", "frustrated", "disappointed"}},
	{model.MoodNeutral, []string{"okay", "fine", "alright"}},
}

// 用户名提取模式，按声明顺序依次尝试，首个命中生效。
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+(\w+)`),
	regexp.MustCompile(`(?i)call me\s+(\w+)`),
	regexp.MustCompile(`(?i)i am\s+(\w+)`),
	regexp.MustCompile(`(?i)i'm\s+(\w+)`),
}

// ContextTracker 维护每个会话的滚动对话上下文，用于增强提示词和回退问候。
type ContextTracker interface {
	// Update 用一轮完整交互更新会话上下文，会话无上下文时先惰性初始化。
	Update(sessionID, userText, botText string)
	// BuildPrompt 基于当前上下文快照组合增强提示词。无副作用；
	// 会话没有上下文时原样返回用户消息。
	BuildPrompt(sessionID, userText string) string
	// KnownName 返回已提取的用户名，未知时返回空串。
	KnownName(sessionID string) string
	// EnsureContext 为会话建立空上下文（若尚不存在）。
	EnsureContext(sessionID string)
	// Drop 丢弃会话的上下文，与会话同生命周期使用。
	Drop(sessionID string)
}

type contextTracker struct {
	mu       sync.RWMutex
	contexts map[string]*model.ConversationContext
	now      func() time.Time
}

// NewContextTracker 创建一个新的 ContextTracker 实例。
func NewContextTracker() ContextTracker {
	return &contextTracker{
		contexts: make(map[string]*model.ConversationContext),
		now:      time.Now,
	}
}

// EnsureContext 与会话创建配对调用，保证会话与上下文成对存在。
func (t *contextTracker) EnsureContext(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureLocked(sessionID)
}

func (t *contextTracker) ensureLocked(sessionID string) *model.ConversationContext {
	ctx, ok := t.contexts[sessionID]
	if !ok {
		ctx = &model.ConversationContext{
			SessionID: sessionID,
			Exchanges: model.NewExchangeWindow(contextWindowSize),
			Mood:      model.MoodNeutral,
		}
		t.contexts[sessionID] = ctx
	}
	return ctx
}

// Update 记录一轮交互：检测情绪、入窗、提取用户名。
func (t *contextTracker) Update(sessionID, userText, botText string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx := t.ensureLocked(sessionID)
	ctx.InteractionCount++

	mood := detectMood(userText)
	ctx.Mood = mood

	ctx.Exchanges.Append(model.Exchange{
		UserText:  userText,
		BotText:   botText,
		Timestamp: t.now(),
		Mood:      mood,
	})

	if name, ok := extractName(userText); ok {
		ctx.UserName = name
	}

	if isKnowledgeQuery(userText) {
		ctx.LastTopic = userText
	}
}

// BuildPrompt 组合固定的人设前导、可选的用户名事实、最近三轮交互和当前消息。
func (t *contextTracker) BuildPrompt(sessionID, userText string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ctx, ok := t.contexts[sessionID]
	if !ok {
		return userText
	}

	var parts []string
	parts = append(parts, "You are a helpful and friendly AI assistant. Be conversational and engaging.")

	if ctx.UserName != "" {
		parts = append(parts, fmt.Sprintf("The user's name is %s.", ctx.UserName))
	}

	if ctx.Exchanges.Len() > 0 {
		var history strings.Builder
		history.WriteString("Recent conversation:\n")
		for _, ex := range ctx.Exchanges.Last(promptRecentExchanges) {
			history.WriteString(fmt.Sprintf("User: %s\nAssistant: %s\n",
				truncate(ex.UserText, promptTextLimit), truncate(ex.BotText, promptTextLimit)))
		}
		parts = append(parts, history.String())
	}

	parts = append(parts, fmt.Sprintf("\nCurrent message: %s", userText))
	parts = append(parts, "\nRespond naturally and helpfully.")

	return strings.Join(parts, "\n")
}

// KnownName 返回该会话已提取的用户名。
func (t *contextTracker) KnownName(sessionID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if ctx, ok := t.contexts[sessionID]; ok {
		return ctx.UserName
	}
	return ""
}

// Drop 丢弃会话上下文。
func (t *contextTracker) Drop(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.contexts, sessionID)
}

// detectMood 对用户消息做大小写不敏感的关键词匹配，无命中时默认 neutral。
func detectMood(userText string) model.Mood {
	lower := strings.ToLower(userText)
	for _, set := range moodKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.mood
			}
		}
	}
	return model.MoodNeutral
}

// extractName 按固定顺序尝试用户名模式，命中后将单词首字母大写。
func extractName(userText string) (string, bool) {
	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(userText); m != nil {
			return capitalize(m[1]), true
		}
	}
	return "", false
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// truncate 按字符数截断，不会切坏多字节字符。
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}
