package model

// ResponseSource 标识一条回复由哪条路径产生。
type ResponseSource string

const (
	SourceKnowledge      ResponseSource = "knowledge"
	SourceGenerative     ResponseSource = "generative"
	SourceGenerativeCode ResponseSource = "generative-code"
	SourceFallback       ResponseSource = "fallback"
	SourceError          ResponseSource = "error"
)

// ResponseEnvelope 是路由器对一条消息的最终产出。
// 每次请求构造一个新实例，由调用方与日志/上下文立即消费，不做持久化。
type ResponseEnvelope struct {
	Text string `json:"text"`
	// Source 标识产生回复的路径。
	Source ResponseSource `json:"source"`
	// Emoji 是回复类别的简短指示符，随回复一起下发给前端。
	Emoji string `json:"emoji"`
}
