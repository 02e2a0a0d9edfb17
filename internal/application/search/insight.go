package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	einoobs "streamguide-api/internal/observability/eino"
	"streamguide-api/internal/workflow/port"
	workflowprompt "streamguide-api/internal/workflow/prompt"
	"streamguide-api/pkg/logger"
	"streamguide-api/pkg/metrics"
)

// Insight 检索洞察：结果解读与替代查询建议，纯装饰性输出
type Insight struct {
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// InsightGenerator 洞察生成器
// best-effort：LLM 失败退回固定模板，从不阻塞检索结果返回
type InsightGenerator struct {
	factory  port.ChatModelFactory
	prompts  *workflowprompt.Registry
	provider string
	enabled  bool
}

// NewInsightGenerator 创建洞察生成器
func NewInsightGenerator(factory port.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.LLMConfig) *InsightGenerator {
	g := &InsightGenerator{
		factory: factory,
		prompts: prompts,
	}
	if cfg != nil {
		g.enabled = cfg.Enabled
		g.provider = cfg.DefaultProvider
	}
	return g
}

// Generate 生成洞察，永不返回错误
func (g *InsightGenerator) Generate(ctx context.Context, analysis *entity.QueryAnalysis, results []entity.CatalogItem) *Insight {
	if g.enabled && g.factory != nil && g.prompts != nil && len(results) > 0 {
		insight, err := g.generateLLM(ctx, analysis, results)
		if err == nil {
			return insight
		}
		metrics.LLMFallbacksTotal.WithLabelValues("insight").Inc()
		logger.Debug(ctx, "llm insight failed, using template fallback", "error", err.Error())
	}
	return g.fallback(analysis, results)
}

type llmInsightEnvelope struct {
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

func (g *InsightGenerator) generateLLM(ctx context.Context, analysis *entity.QueryAnalysis, results []entity.CatalogItem) (*Insight, error) {
	ctx = einoobs.WithWorkflowProvider(ctx, "search_insight", g.provider)

	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		return nil, err
	}

	tpl, err := g.prompts.ChatTemplate(workflowprompt.PromptSearchInsightV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"query":       analysis.Query,
		"intent":      string(analysis.Intent),
		"top_results": strings.Join(topTitles(results, 5), "; "),
	})
	if err != nil {
		return nil, err
	}

	out, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("empty completion")
	}

	var envelope llmInsightEnvelope
	if err := json.Unmarshal([]byte(extractJSONObject(out.Content)), &envelope); err != nil {
		return nil, fmt.Errorf("malformed insight json: %w", err)
	}
	if strings.TrimSpace(envelope.Explanation) == "" {
		return nil, fmt.Errorf("missing explanation")
	}

	if len(envelope.Suggestions) > 3 {
		envelope.Suggestions = envelope.Suggestions[:3]
	}
	return &Insight{
		Explanation: strings.TrimSpace(envelope.Explanation),
		Suggestions: envelope.Suggestions,
	}, nil
}

// fallback 固定模板插值头部结果标题
func (g *InsightGenerator) fallback(analysis *entity.QueryAnalysis, results []entity.CatalogItem) *Insight {
	if len(results) == 0 {
		return &Insight{
			Explanation: fmt.Sprintf("No results matched %q. Try a broader phrase or a different spelling.", analysis.Query),
		}
	}

	titles := topTitles(results, 2)
	var explanation string
	switch analysis.Intent {
	case entity.IntentMoodSearch:
		explanation = fmt.Sprintf("Picked %s titles for %q, led by %s.", analysis.Mood, analysis.Query, strings.Join(titles, " and "))
	case entity.IntentActorSearch:
		explanation = fmt.Sprintf("Found titles connected to %q, led by %s.", analysis.Query, strings.Join(titles, " and "))
	default:
		explanation = fmt.Sprintf("Showing results for %q, led by %s.", analysis.Query, strings.Join(titles, " and "))
	}

	return &Insight{Explanation: explanation}
}

func topTitles(results []entity.CatalogItem, n int) []string {
	titles := make([]string, 0, n)
	for _, item := range results {
		if item.Title == "" {
			continue
		}
		titles = append(titles, item.Title)
		if len(titles) == n {
			break
		}
	}
	return titles
}
