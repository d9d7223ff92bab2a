// Package wiki 提供了一个与维基百科 (MediaWiki action API) 交互的客户端。
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"chatcore-go/internal/config"
)

// ResultKind 标识一次条目查询的结果类型。
type ResultKind int

const (
	// Found 表示成功取到条目正文。
	Found ResultKind = iota
	// Ambiguous 表示标题命中了消歧义页，Candidates 中给出候选标题。
	Ambiguous
	// NotFound 表示没有匹配的条目。
	NotFound
	// ProviderError 表示网络或解析层面的故障，Err 中给出原因。
	ProviderError
)

// PageResult 是条目查询的显式结果变体，由格式化阶段作为数据消费。
type PageResult struct {
	Kind       ResultKind
	Title      string
	Content    string
	Candidates []string
	Err        error
}

// Client 定义了知识源所需的维基百科操作。
type Client interface {
	// FetchPage 按标题取条目正文，返回显式结果变体，自身不向上抛错。
	FetchPage(ctx context.Context, title string) PageResult
	// Summary 取条目开头至多 sentences 句的摘要。
	Summary(ctx context.Context, title string, sentences int) (string, error)
	// Search 做全文检索，返回至多 limit 个条目标题。
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type apiClient struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的维基百科客户端实例。
// 未显式配置 base_url 时按语言推导出对应语言版本的 API 地址。
func NewClient(cfg config.WikipediaConfig) Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		lang := cfg.Language
		if lang == "" {
			lang = "en"
		}
		baseURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
	}
	return &apiClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title string `json:"title"`
			// 缺页在 formatversion 1 下以 "missing":"" 标记，
			// 只判断字段是否出现，不关心其值。
			Missing   json.RawMessage `json:"missing"`
			Extract   string          `json:"extract"`
			PageProps struct {
				Disambiguation *string `json:"disambiguation"`
			} `json:"pageprops"`
		} `json:"pages"`
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// FetchPage 取条目全文。消歧义页通过 pageprops 识别，候选标题由一次检索补齐。
func (c *apiClient) FetchPage(ctx context.Context, title string) PageResult {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var parsed queryResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return PageResult{Kind: ProviderError, Err: err}
	}

	for _, page := range parsed.Query.Pages {
		if page.Missing != nil {
			return PageResult{Kind: NotFound, Title: title}
		}
		if page.PageProps.Disambiguation != nil {
			candidates, err := c.Search(ctx, title, 5)
			if err != nil {
				candidates = nil
			}
			return PageResult{Kind: Ambiguous, Title: page.Title, Candidates: candidates}
		}
		return PageResult{Kind: Found, Title: page.Title, Content: page.Extract}
	}
	return PageResult{Kind: NotFound, Title: title}
}

// Summary 取条目开头的简短摘要（纯文本）。
func (c *apiClient) Summary(ctx context.Context, title string, sentences int) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exintro", "1")
	params.Set("exsentences", fmt.Sprintf("%d", sentences))
	params.Set("redirects", "1")
	params.Set("titles", title)

	var parsed queryResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return "", err
	}
	for _, page := range parsed.Query.Pages {
		if page.Missing != nil {
			return "", fmt.Errorf("page %q not found", title)
		}
		return page.Extract, nil
	}
	return "", fmt.Errorf("empty query response for %q", title)
}

// Search 做全文检索并返回条目标题列表。
func (c *apiClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))

	var parsed queryResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

// get 执行一次 API 请求并把 JSON 响应解析到 out。
func (c *apiClient) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("调用维基百科 API 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("维基百科 API 返回错误 [%d]: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析维基百科响应失败: %w", err)
	}
	return nil
}
