package search

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	einoobs "streamguide-api/internal/observability/eino"
	"streamguide-api/internal/workflow/port"
	workflowprompt "streamguide-api/internal/workflow/prompt"
	"streamguide-api/pkg/logger"
	"streamguide-api/pkg/metrics"
)

// Analyzer 查询分析器
// 优先走 LLM 路径，任何失败静默降级到启发式路径，从不向调用方抛错
type Analyzer struct {
	factory  port.ChatModelFactory
	prompts  *workflowprompt.Registry
	provider string
	enabled  bool
}

// NewAnalyzer 创建查询分析器
// factory 为 nil 或 LLM 未启用时只走启发式路径
func NewAnalyzer(factory port.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.LLMConfig) *Analyzer {
	a := &Analyzer{
		factory: factory,
		prompts: prompts,
	}
	if cfg != nil {
		a.enabled = cfg.Enabled
		a.provider = cfg.DefaultProvider
	}
	return a
}

// Analyze 分析查询，永不返回错误
func (a *Analyzer) Analyze(ctx context.Context, query string) *entity.QueryAnalysis {
	query = strings.TrimSpace(query)
	if query == "" {
		return &entity.QueryAnalysis{
			Query:      "",
			Intent:     entity.IntentGeneral,
			Complexity: entity.ComplexitySimple,
			Confidence: 0,
		}
	}

	if a.enabled && a.factory != nil && a.prompts != nil {
		analysis, err := a.analyzeLLM(ctx, query)
		if err == nil {
			return analysis
		}
		metrics.LLMFallbacksTotal.WithLabelValues("analysis").Inc()
		logger.Warn(ctx, "llm analysis failed, falling back to heuristics", "error", err.Error())
	}

	return a.analyzeHeuristic(query)
}

// llmAnalysisEnvelope LLM 返回的 JSON 信封
type llmAnalysisEnvelope struct {
	Intent   string `json:"intent"`
	Entities []struct {
		Kind       string  `json:"kind"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"entities"`
	Mood       string  `json:"mood"`
	Complexity string  `json:"complexity"`
	Confidence float64 `json:"confidence"`
}

var validIntents = map[entity.SearchIntent]bool{
	entity.IntentSpecificTitle: true,
	entity.IntentActorSearch:   true,
	entity.IntentGenreSearch:   true,
	entity.IntentMoodSearch:    true,
	entity.IntentGeneral:       true,
}

var validEntityKinds = map[entity.EntityKind]bool{
	entity.EntityKindPerson: true,
	entity.EntityKindGenre:  true,
	entity.EntityKindMood:   true,
	entity.EntityKindYear:   true,
}

// analyzeLLM LLM 分析路径
func (a *Analyzer) analyzeLLM(ctx context.Context, query string) (*entity.QueryAnalysis, error) {
	ctx = einoobs.WithWorkflowProvider(ctx, "search_analysis", a.provider)

	chatModel, err := a.factory.Get(ctx, a.provider)
	if err != nil {
		return nil, err
	}

	tpl, err := a.prompts.ChatTemplate(workflowprompt.PromptSearchAnalysisV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{"query": query})
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

	var envelope llmAnalysisEnvelope
	if err := json.Unmarshal([]byte(extractJSONObject(out.Content)), &envelope); err != nil {
		return nil, fmt.Errorf("malformed analysis json: %w", err)
	}

	intent := entity.SearchIntent(envelope.Intent)
	if !validIntents[intent] {
		return nil, fmt.Errorf("invalid intent %q", envelope.Intent)
	}

	analysis := &entity.QueryAnalysis{
		Query:      query,
		Intent:     intent,
		Mood:       strings.ToLower(strings.TrimSpace(envelope.Mood)),
		Complexity: parseComplexity(envelope.Complexity),
		Confidence: clamp01(envelope.Confidence),
		AIPowered:  true,
	}

	for _, e := range envelope.Entities {
		kind := entity.EntityKind(e.Kind)
		value := strings.TrimSpace(e.Value)
		if !validEntityKinds[kind] || value == "" {
			continue
		}
		analysis.Entities = append(analysis.Entities, entity.QueryEntity{
			Kind:       kind,
			Value:      value,
			Confidence: clamp01(e.Confidence),
		})
	}

	return analysis, nil
}

// 启发式词表；切片保证扫描顺序确定
var moodWords = []string{
	"funny", "happy", "sad", "scary", "romantic",
	"exciting", "thrilling", "relaxing", "epic", "dark",
}

var genreWords = []string{
	"science fiction", "sci-fi", "action", "adventure", "animation",
	"comedy", "crime", "documentary", "drama", "family", "fantasy",
	"history", "horror", "music", "mystery", "romance", "thriller",
	"war", "western",
}

// actorIndicators 出现即认为后续文本是人名
var actorIndicators = []string{
	"movies with", "films with", "shows with", "starring", "movies by", "acted in",
}

// commonFirstNames 人名形状启发式的常见名列表
var commonFirstNames = map[string]bool{
	"tom": true, "will": true, "brad": true, "emma": true, "jennifer": true,
	"leonardo": true, "meryl": true, "denzel": true, "scarlett": true,
	"ryan": true, "chris": true, "robert": true, "samuel": true, "morgan": true,
	"julia": true, "keanu": true, "anne": true, "matt": true, "angelina": true,
	"sandra": true, "george": true, "nicole": true, "johnny": true, "kate": true,
}

// stopwords 不可能是人名组成部分的查询词
var stopwords = map[string]bool{
	"movie": true, "movies": true, "film": true, "films": true,
	"show": true, "shows": true, "series": true, "tv": true,
	"watch": true, "good": true, "best": true, "new": true,
	"the": true, "with": true, "about": true, "like": true,
	"some": true, "from": true, "and": true, "for": true,
}

var (
	yearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	alphaRe = regexp.MustCompile(`^[a-z]+$`)
)

// analyzeHeuristic 启发式分析路径：固定词表 + 人名形状匹配，固定置信度常量
func (a *Analyzer) analyzeHeuristic(query string) *entity.QueryAnalysis {
	lower := strings.ToLower(query)
	analysis := &entity.QueryAnalysis{
		Query:      query,
		Intent:     entity.IntentGeneral,
		Complexity: complexityOf(lower),
	}

	if year := yearRe.FindString(lower); year != "" {
		analysis.Entities = append(analysis.Entities, entity.QueryEntity{
			Kind:       entity.EntityKindYear,
			Value:      year,
			Confidence: confidenceYearMatch,
		})
	}

	for _, mood := range moodWords {
		if containsWord(lower, mood) {
			analysis.Mood = mood
			analysis.Entities = append(analysis.Entities, entity.QueryEntity{
				Kind:       entity.EntityKindMood,
				Value:      mood,
				Confidence: confidenceMoodMatch,
			})
			break
		}
	}

	for _, genre := range genreWords {
		if containsWord(lower, genre) {
			analysis.Entities = append(analysis.Entities, entity.QueryEntity{
				Kind:       entity.EntityKindGenre,
				Value:      genre,
				Confidence: confidenceGenreWord,
			})
			break
		}
	}

	if name, confidence, ok := detectPersonName(lower); ok {
		analysis.Entities = append(analysis.Entities, entity.QueryEntity{
			Kind:       entity.EntityKindPerson,
			Value:      name,
			Confidence: confidence,
		})
	}

	analysis.Intent = resolveIntent(lower, analysis)
	analysis.Confidence = maxEntityConfidence(analysis.Entities)

	return analysis
}

// detectPersonName 人名检测：先看指示短语，再看人名形状
func detectPersonName(lower string) (string, float64, bool) {
	for _, indicator := range actorIndicators {
		if idx := strings.Index(lower, indicator); idx >= 0 {
			rest := strings.TrimSpace(lower[idx+len(indicator):])
			tokens := alphaTokens(rest)
			if len(tokens) >= 1 {
				if len(tokens) > 4 {
					tokens = tokens[:4]
				}
				return strings.Join(tokens, " "), confidencePersonName, true
			}
		}
	}

	// 1–4 个纯字母 token 且不含停用词/词表词，可能是裸人名
	tokens := alphaTokens(lower)
	if len(tokens) < 1 || len(tokens) > 4 || len(tokens) != len(strings.Fields(lower)) {
		return "", 0, false
	}
	for _, tok := range tokens {
		if stopwords[tok] || genreIDs[tok] != 0 {
			return "", 0, false
		}
		if _, isMood := moodGenres[tok]; isMood {
			return "", 0, false
		}
	}

	if commonFirstNames[tokens[0]] {
		return strings.Join(tokens, " "), confidenceKnownFirst, true
	}
	// 通用 "first last" 形状
	if len(tokens) == 2 {
		return strings.Join(tokens, " "), confidencePersonName, true
	}
	return "", 0, false
}

// resolveIntent 依实体推断意图，人物优先于心情优先于类型
func resolveIntent(lower string, analysis *entity.QueryAnalysis) entity.SearchIntent {
	if strings.ContainsAny(lower, `"'`) {
		return entity.IntentSpecificTitle
	}

	hasKind := func(kind entity.EntityKind) bool {
		for _, e := range analysis.Entities {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}

	switch {
	case hasKind(entity.EntityKindPerson):
		return entity.IntentActorSearch
	case analysis.Mood != "":
		return entity.IntentMoodSearch
	case hasKind(entity.EntityKindGenre):
		return entity.IntentGenreSearch
	default:
		return entity.IntentGeneral
	}
}

func alphaTokens(s string) []string {
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if alphaRe.MatchString(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// containsWord 整词匹配；多词/连字符词退化为子串匹配
func containsWord(s, w string) bool {
	if strings.ContainsAny(w, " -") {
		return strings.Contains(s, w)
	}
	for _, tok := range strings.Fields(s) {
		if strings.Trim(tok, ",.!?") == w {
			return true
		}
	}
	return false
}

func complexityOf(lower string) entity.QueryComplexity {
	n := len(strings.Fields(lower))
	switch {
	case n <= 2:
		return entity.ComplexitySimple
	case n <= 5:
		return entity.ComplexityModerate
	default:
		return entity.ComplexityComplex
	}
}

func parseComplexity(s string) entity.QueryComplexity {
	switch entity.QueryComplexity(strings.ToLower(strings.TrimSpace(s))) {
	case entity.ComplexitySimple:
		return entity.ComplexitySimple
	case entity.ComplexityModerate:
		return entity.ComplexityModerate
	case entity.ComplexityComplex:
		return entity.ComplexityComplex
	default:
		return entity.ComplexityModerate
	}
}

func maxEntityConfidence(entities []entity.QueryEntity) float64 {
	confidence := confidenceFallback
	for _, e := range entities {
		if e.Confidence > confidence {
			confidence = e.Confidence
		}
	}
	return confidence
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
