package service

import (
	"regexp"
	"strings"
)

// 意图分类是纯函数，模式表与真正做 I/O 的分发逻辑分离，便于独立测试。

// 事实类问题的模式：前导疑问词，或对百科/事实信息的显式提及。
var knowledgePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(what is|who is|tell me about|explain|describe|define)\b`),
	regexp.MustCompile(`\b(wikipedia|facts about|information about)\b`),
}

// 代码生成请求的关键词表。
var codeKeywords = []string{
	"write code",
	"generate code",
	"python code",
	"javascript code",
	"java code",
	"go code",
	"c++ code",
}

// isKnowledgeQuery 判定消息是否为事实查询类问题。
func isKnowledgeQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, pattern := range knowledgePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// isCodeRequest 判定消息是否为代码生成请求。
func isCodeRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
