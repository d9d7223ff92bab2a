package model

// HistoryEntry 代表对话日志中一条不可变的完整交互记录。
type HistoryEntry struct {
	// ID 是记录的全局唯一标识。
	ID string `json:"id"`
	// Timestamp 是秒级精度的记录时间，格式为 "2006-01-02 15:04:05"。
	Timestamp string `json:"timestamp"`
	// UserText 是用户的原始消息。
	UserText string `json:"user"`
	// BotText 是机器人的回复。
	BotText string `json:"bot"`
	// SessionID 是产生该记录的会话。
	SessionID string `json:"sessionId"`
	// InputMethod 标记消息的输入方式（text / voice 等）。
	InputMethod string `json:"inputMethod"`
	// ResponseTime 是本轮处理耗时，格式为 "0.42s"。
	ResponseTime string `json:"responseTime"`
}
