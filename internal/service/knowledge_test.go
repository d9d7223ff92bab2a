package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"chatcore-go/pkg/wiki"

	"github.com/stretchr/testify/require"
)

// fakeWikiClient 用可注入的函数字段实现 wiki.Client。
type fakeWikiClient struct {
	fetch   func(ctx context.Context, title string) wiki.PageResult
	summary func(ctx context.Context, title string, sentences int) (string, error)
	search  func(ctx context.Context, query string, limit int) ([]string, error)
}

func (f *fakeWikiClient) FetchPage(ctx context.Context, title string) wiki.PageResult {
	if f.fetch == nil {
		return wiki.PageResult{Kind: wiki.NotFound, Title: title}
	}
	return f.fetch(ctx, title)
}

func (f *fakeWikiClient) Summary(ctx context.Context, title string, sentences int) (string, error) {
	if f.summary == nil {
		return "", errors.New("no summary")
	}
	return f.summary(ctx, title, sentences)
}

func (f *fakeWikiClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if f.search == nil {
		return nil, nil
	}
	return f.search(ctx, query, limit)
}

// sentences 生成由完整句子构成、长度约为 n 字符的段落。
func sentences(n int) string {
	const s = "All work and no play makes Jack a dull boy. "
	return strings.TrimSpace(strings.Repeat(s, n/len(s)+1))
}

func TestLookupStripsQuestionPrefix(t *testing.T) {
	var fetched string
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			fetched = title
			return wiki.PageResult{Kind: wiki.Found, Title: title, Content: sentences(200)}
		},
	}
	source := NewKnowledgeSource(client)

	source.Lookup(context.Background(), "What is Photosynthesis")
	require.Equal(t, "Photosynthesis", fetched)

	source.Lookup(context.Background(), "tell me about the Eiffel Tower")
	require.Equal(t, "the Eiffel Tower", fetched)

	source.Lookup(context.Background(), "Photosynthesis")
	require.Equal(t, "Photosynthesis", fetched)
}

func TestLookupFormatsArticle(t *testing.T) {
	para1 := sentences(300)
	para2 := sentences(250)
	content := strings.Join([]string{
		para1,
		"== History ==",   // 小节标题被过滤
		"Short fragment.", // 不足段落门槛被过滤
		para2,
	}, "\n\n")

	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.Found, Title: "Photosynthesis", Content: content}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "what is photosynthesis")

	require.True(t, strings.HasPrefix(text, "📚 **Photosynthesis**\n\n"))
	require.Contains(t, text, para1)
	require.Contains(t, text, para2)
	require.NotContains(t, text, "== History ==")
	require.NotContains(t, text, "Short fragment.")
	require.True(t, strings.HasSuffix(text, "🔗 *Source: Wikipedia*"))
}

func TestLookupStopsAtTargetLength(t *testing.T) {
	paras := []string{sentences(1800), sentences(1800), sentences(1800)}
	// 段落内容相同会使 Contains 断言失效，给每段加独立标记
	for i := range paras {
		paras[i] = fmt.Sprintf("Marker%d begins here. %s", i, paras[i])
	}

	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.Found, Title: "Topic", Content: strings.Join(paras, "\n\n")}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Topic")

	// 前两段累计已越过软目标，第三段不再追加
	require.Contains(t, text, "Marker0")
	require.Contains(t, text, "Marker1")
	require.NotContains(t, text, "Marker2")
	require.True(t, strings.HasSuffix(text, "🔗 *Source: Wikipedia*"))
}

func TestLookupHardCapEndsAtSentenceBoundary(t *testing.T) {
	// 第一段后累计约 2800 字符（低于最低产出），第二段会触顶，
	// 应追加一段在句号处截断的文本
	para1 := sentences(2800)
	para2 := sentences(1500)

	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.Found, Title: "Topic", Content: para1 + "\n\n" + para2}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Topic")

	body := strings.TrimSuffix(text, "🔗 *Source: Wikipedia*")
	body = strings.TrimSpace(body)
	// 决不切在句中
	require.True(t, strings.HasSuffix(body, "."), "article body must end at a sentence boundary, got: %q", body[len(body)-40:])
	// 截断段确实被追加了一部分
	require.Greater(t, len(body), len(para1))
	// 总长度不超过硬上限加页脚
	require.LessOrEqual(t, len(text), 4000+len("🔗 *Source: Wikipedia*")+2)
}

func TestLookupFoundWithoutUsableParagraphsFallsToSearch(t *testing.T) {
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.Found, Title: "Stub", Content: "Tiny."}
		},
		search: func(_ context.Context, query string, limit int) ([]string, error) {
			return []string{"Stub (disambiguation)", "Stub article"}, nil
		},
		summary: func(_ context.Context, title string, _ int) (string, error) {
			return "A short summary of " + title + ".", nil
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Stub")

	require.Contains(t, text, "🔎 I found these Wikipedia articles related to 'Stub'")
	require.Contains(t, text, "**1. Stub (disambiguation)**")
	require.Contains(t, text, "A short summary of Stub article.")
}

func TestLookupAmbiguousResolvesFirstCandidate(t *testing.T) {
	planet := sentences(400)
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			switch title {
			case "Mercury":
				return wiki.PageResult{
					Kind:       wiki.Ambiguous,
					Title:      "Mercury",
					Candidates: []string{"Mercury (planet)", "Mercury (element)"},
				}
			case "Mercury (planet)":
				return wiki.PageResult{Kind: wiki.Found, Title: "Mercury (planet)", Content: planet}
			default:
				return wiki.PageResult{Kind: wiki.NotFound, Title: title}
			}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Mercury")

	// 第一个候选可解析时静默采用，不打扰用户
	require.True(t, strings.HasPrefix(text, "📚 **Mercury (planet)**"))
	require.Contains(t, text, planet)
}

func TestLookupAmbiguousListsCandidates(t *testing.T) {
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			if title == "Mercury" {
				return wiki.PageResult{
					Kind:       wiki.Ambiguous,
					Title:      "Mercury",
					Candidates: []string{"Mercury (planet)", "Mercury (element)", "Mercury Records"},
				}
			}
			// 所有候选都取不到正文
			return wiki.PageResult{Kind: wiki.NotFound, Title: title}
		},
		summary: func(_ context.Context, title string, _ int) (string, error) {
			if title == "Mercury (element)" {
				return "Mercury is a chemical element.", nil
			}
			return "", errors.New("no summary")
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "what is Mercury")

	require.Contains(t, text, "🔍 I found multiple topics for 'Mercury'")
	require.Contains(t, text, "**1. Mercury (planet)**")
	require.Contains(t, text, "**2. Mercury (element)**\nMercury is a chemical element.")
	require.Contains(t, text, "**3. Mercury Records**")
	require.Contains(t, text, "💡 Please be more specific!")
}

func TestLookupAmbiguousWithoutCandidates(t *testing.T) {
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.Ambiguous, Title: title}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Mercury")
	require.Equal(t, "I couldn't find information about 'Mercury' on Wikipedia.", text)
}

func TestLookupNotFoundFallsToSearch(t *testing.T) {
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.NotFound, Title: title}
		},
		search: func(_ context.Context, query string, limit int) ([]string, error) {
			require.Equal(t, 5, limit)
			return []string{"Related A", "Related B"}, nil
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Xyzzy")

	require.Contains(t, text, "🔎 I found these Wikipedia articles related to 'Xyzzy'")
	require.Contains(t, text, "**1. Related A**")
	require.Contains(t, text, "**2. Related B**")
}

func TestLookupNotFoundWithEmptySearch(t *testing.T) {
	source := NewKnowledgeSource(&fakeWikiClient{})

	text := source.Lookup(context.Background(), "Xyzzy")
	require.Equal(t, "I couldn't find any Wikipedia articles about 'Xyzzy'.", text)
}

func TestLookupSearchFailure(t *testing.T) {
	client := &fakeWikiClient{
		search: func(_ context.Context, query string, limit int) ([]string, error) {
			return nil, errors.New("network down")
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "Xyzzy")
	require.Equal(t, "I encountered an issue searching for 'Xyzzy'.", text)
}

func TestLookupProviderErrorDegradesToApology(t *testing.T) {
	client := &fakeWikiClient{
		fetch: func(_ context.Context, title string) wiki.PageResult {
			return wiki.PageResult{Kind: wiki.ProviderError, Err: errors.New("connection refused")}
		},
	}
	source := NewKnowledgeSource(client)

	text := source.Lookup(context.Background(), "what is entropy")
	require.Equal(t, "I couldn't find information about 'entropy' on Wikipedia.", text)
}
