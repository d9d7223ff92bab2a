package model

import "time"

// Mood 是从用户消息中检测到的情绪标签。
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
)

// Exchange 代表一轮完整的问答交互。
type Exchange struct {
	UserText  string    `json:"user"`
	BotText   string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood"`
}

// ExchangeWindow 是固定容量的交互环形窗口，容量由容器自身保证。
// 零值不可用，必须通过 NewExchangeWindow 创建。
type ExchangeWindow struct {
	entries  []Exchange
	capacity int
	start    int
	size     int
}

// NewExchangeWindow 创建一个容量为 capacity 的空窗口。
func NewExchangeWindow(capacity int) *ExchangeWindow {
	return &ExchangeWindow{
		entries:  make([]Exchange, capacity),
		capacity: capacity,
	}
}

// Append 追加一轮交互，窗口满时覆盖最旧的一轮。
func (w *ExchangeWindow) Append(e Exchange) {
	idx := (w.start + w.size) % w.capacity
	w.entries[idx] = e
	if w.size < w.capacity {
		w.size++
	} else {
		w.start = (w.start + 1) % w.capacity
	}
}

// Len 返回窗口中当前的交互数。
func (w *ExchangeWindow) Len() int {
	return w.size
}

// Last 返回最近的 n 轮交互，按时间先后排列。
func (w *ExchangeWindow) Last(n int) []Exchange {
	if n > w.size {
		n = w.size
	}
	out := make([]Exchange, 0, n)
	for i := w.size - n; i < w.size; i++ {
		out = append(out, w.entries[(w.start+i)%w.capacity])
	}
	return out
}

// ConversationContext 保存单个会话的滚动对话状态。
// 它与所属会话同生命周期，不做独立淘汰。
type ConversationContext struct {
	SessionID        string
	Exchanges        *ExchangeWindow
	UserName         string
	Mood             Mood
	InteractionCount int
	// LastTopic 记录最近一次事实查询的话题。
	LastTopic string
}
