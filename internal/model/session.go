// Package model 包含了应用的数据模型定义。
package model

import "time"

// ClientSession 代表一个客户端的活跃会话。
// 会话从不被显式删除，只会因超过不活跃时限而在校验时判定为失效。
type ClientSession struct {
	// ID 是会话的全局唯一标识。
	ID string `json:"sessionId"`
	// ClientKey 是创建会话的客户端标识（通常为 IP）。
	ClientKey string `json:"clientKey"`
	// CreatedAt 是会话创建时间。
	CreatedAt time.Time `json:"createdAt"`
	// LastActivity 是最近一次消息的时间，会话有效性以它为基准。
	LastActivity time.Time `json:"lastActivity"`
	// MessageCount 是该会话已处理的消息数。
	MessageCount int `json:"messageCount"`
}
