package service

import (
	"context"
	"fmt"
	"strings"

	"chatcore-go/pkg/log"
	"chatcore-go/pkg/wiki"
)

// 成文格式化的长度预算（字符）。
const (
	// articleTargetLen 是软目标：累计达到即停止追加段落。
	articleTargetLen = 3500
	// articleHardCap 是硬上限：任何段落都不得使累计超过它。
	articleHardCap = 4000
	// articleMinLen 是最低产出：触顶时若累计不足此数，再补一段截断到句号的文本。
	articleMinLen = 3000
	// paragraphMinLen 是段落准入门槛，更短的碎片会被过滤掉。
	paragraphMinLen = 100
	// listingLimit 是消歧义/检索列表的条目上限。
	listingLimit = 5
	// summarySentences 是列表条目摘要的句数。
	summarySentences = 2
)

const sourceFooter = "🔗 *Source: Wikipedia*"

// 查询清洗时剥掉的前导疑问短语，按声明顺序匹配，首个命中生效。
var questionPrefixes = []string{
	"what is",
	"who is",
	"tell me about",
	"explain",
	"describe",
	"define",
}

// KnowledgeSource 是事实查询的抽象：查询进，成文文本出。
// 提供方的一切失败（网络、解析、条目缺失）都在此边界内降级为道歉文案，从不向上抛错。
type KnowledgeSource interface {
	Lookup(ctx context.Context, query string) string
}

type wikiKnowledgeSource struct {
	client wiki.Client
}

// NewKnowledgeSource 用一个维基百科客户端创建知识源。
func NewKnowledgeSource(client wiki.Client) KnowledgeSource {
	return &wikiKnowledgeSource{client: client}
}

// Lookup 执行完整的查询管线：清洗 → 直取条目 → 消歧义/检索降级 → 成文。
func (s *wikiKnowledgeSource) Lookup(ctx context.Context, query string) string {
	topic := cleanQuery(query)

	result := s.client.FetchPage(ctx, topic)
	switch result.Kind {
	case wiki.Found:
		if text := formatArticle(result.Title, result.Content); text != "" {
			return text
		}
		// 条目存在但没有可用段落，走检索降级
		return s.searchListing(ctx, topic)

	case wiki.Ambiguous:
		return s.resolveAmbiguous(ctx, topic, result.Candidates)

	case wiki.NotFound:
		return s.searchListing(ctx, topic)

	default:
		log.Error("维基百科查询失败", result.Err)
		return fmt.Sprintf("I couldn't find information about '%s' on Wikipedia.", topic)
	}
}

// cleanQuery 剥掉前导疑问短语得到干净的主题串。
func cleanQuery(query string) string {
	clean := strings.TrimSpace(query)
	lower := strings.ToLower(clean)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(clean[len(prefix):])
		}
	}
	return clean
}

// resolveAmbiguous 先静默尝试第一个候选；不成再给出候选列表请用户明确。
func (s *wikiKnowledgeSource) resolveAmbiguous(ctx context.Context, topic string, candidates []string) string {
	if len(candidates) > 0 {
		first := s.client.FetchPage(ctx, candidates[0])
		if first.Kind == wiki.Found {
			if text := formatArticle(first.Title, first.Content); text != "" {
				return text
			}
		}
	}

	if len(candidates) == 0 {
		return fmt.Sprintf("I couldn't find information about '%s' on Wikipedia.", topic)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 I found multiple topics for '%s'. Here are the main ones:\n\n", topic))
	s.writeListing(ctx, &b, candidates)
	b.WriteString("💡 Please be more specific!")
	return b.String()
}

// searchListing 在直取失败后做更宽泛的检索，渲染与消歧义一致的短摘要列表。
func (s *wikiKnowledgeSource) searchListing(ctx context.Context, topic string) string {
	results, err := s.client.Search(ctx, topic, listingLimit)
	if err != nil {
		log.Error("维基百科检索失败", err)
		return fmt.Sprintf("I encountered an issue searching for '%s'.", topic)
	}
	if len(results) == 0 {
		return fmt.Sprintf("I couldn't find any Wikipedia articles about '%s'.", topic)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 I found these Wikipedia articles related to '%s':\n\n", topic))
	s.writeListing(ctx, &b, results)
	return b.String()
}

// writeListing 渲染带编号的条目列表，摘要可取时附上，取不到则只列标题。
func (s *wikiKnowledgeSource) writeListing(ctx context.Context, b *strings.Builder, titles []string) {
	if len(titles) > listingLimit {
		titles = titles[:listingLimit]
	}
	for i, title := range titles {
		summary, err := s.client.Summary(ctx, title, summarySentences)
		if err != nil || strings.TrimSpace(summary) == "" {
			b.WriteString(fmt.Sprintf("**%d. %s**\n\n", i+1, title))
			continue
		}
		b.WriteString(fmt.Sprintf("**%d. %s**\n%s\n\n", i+1, title, strings.TrimSpace(summary)))
	}
}

// formatArticle 把条目正文成文：标题 + 过滤后的段落，直到长度预算耗尽。
// 过滤规则：丢弃小节标题（"==" 开头）和短于 paragraphMinLen 的碎片。
// 触顶且产出不足 articleMinLen 时，再补一段在句号处截断的文本，决不切在句中。
// 返回空串表示没有可用段落。
func formatArticle(title, content string) string {
	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" && len(p) > paragraphMinLen && !strings.HasPrefix(p, "==") {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return ""
	}

	var b strings.Builder
	heading := fmt.Sprintf("📚 **%s**\n\n", title)
	b.WriteString(heading)

	currentLen := len(heading)
	for _, para := range paragraphs {
		if currentLen+len(para) > articleHardCap {
			if currentLen < articleMinLen {
				remaining := articleHardCap - currentLen - 50
				if truncated, ok := truncateAtSentence(para, remaining); ok {
					b.WriteString(truncated)
					b.WriteString("\n\n")
				}
			}
			break
		}

		b.WriteString(para)
		b.WriteString("\n\n")
		currentLen += len(para) + 2

		if currentLen >= articleTargetLen {
			break
		}
	}

	b.WriteString(sourceFooter)
	return b.String()
}

// truncateAtSentence 把文本截断到 limit 以内最后一个句号处。
// 没有完整句子可留时返回 false，调用方应放弃这段文本。
func truncateAtSentence(text string, limit int) (string, bool) {
	if limit <= 0 {
		return "", false
	}
	if len(text) > limit {
		text = text[:limit]
	}
	idx := strings.LastIndex(text, ".")
	if idx <= 0 {
		return "", false
	}
	return text[:idx+1], true
}
