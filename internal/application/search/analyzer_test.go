package search

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	workflowprompt "streamguide-api/internal/workflow/prompt"
)

// stubChatModel 固定返回一段文本或错误
type stubChatModel struct {
	content string
	err     error
}

func (m *stubChatModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

type stubFactory struct {
	chatModel model.BaseChatModel
	err       error
}

func (f *stubFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.chatModel, f.err
}

func llmAnalyzer(chatModel model.BaseChatModel) *Analyzer {
	return NewAnalyzer(
		&stubFactory{chatModel: chatModel},
		workflowprompt.NewRegistry(),
		&config.LLMConfig{Enabled: true, DefaultProvider: "openai"},
	)
}

func heuristicAnalyzer() *Analyzer {
	return NewAnalyzer(nil, nil, nil)
}

func TestAnalyzeEmptyQuery(t *testing.T) {
	analysis := heuristicAnalyzer().Analyze(context.Background(), "   ")

	assert.Equal(t, entity.IntentGeneral, analysis.Intent)
	assert.Zero(t, analysis.Confidence)
	assert.Empty(t, analysis.Entities)
	assert.False(t, analysis.AIPowered)
}

func TestAnalyzeHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		intent     entity.SearchIntent
		mood       string
		entityKind entity.EntityKind
		entityVal  string
		confidence float64
	}{
		{
			name:       "mood word",
			query:      "funny movies",
			intent:     entity.IntentMoodSearch,
			mood:       "funny",
			entityKind: entity.EntityKindMood,
			entityVal:  "funny",
			confidence: confidenceMoodMatch,
		},
		{
			name:       "known first name",
			query:      "Tom Hanks",
			intent:     entity.IntentActorSearch,
			entityKind: entity.EntityKindPerson,
			entityVal:  "tom hanks",
			confidence: confidenceKnownFirst,
		},
		{
			name:       "actor indicator phrase",
			query:      "movies with brad pitt",
			intent:     entity.IntentActorSearch,
			entityKind: entity.EntityKindPerson,
			entityVal:  "brad pitt",
			confidence: confidencePersonName,
		},
		{
			name:       "genre word",
			query:      "best action movies",
			intent:     entity.IntentGenreSearch,
			entityKind: entity.EntityKindGenre,
			entityVal:  "action",
			confidence: confidenceGenreWord,
		},
		{
			name:       "year",
			query:      "movies from 2020",
			intent:     entity.IntentGeneral,
			entityKind: entity.EntityKindYear,
			entityVal:  "2020",
			confidence: confidenceYearMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := heuristicAnalyzer().Analyze(context.Background(), tt.query)

			assert.Equal(t, tt.intent, analysis.Intent)
			assert.Equal(t, tt.mood, analysis.Mood)
			assert.False(t, analysis.AIPowered)
			assert.Equal(t, tt.confidence, analysis.Confidence)

			require.NotEmpty(t, analysis.Entities)
			found := false
			for _, e := range analysis.Entities {
				if e.Kind == tt.entityKind && e.Value == tt.entityVal {
					found = true
					assert.Equal(t, tt.confidence, e.Confidence)
				}
			}
			assert.True(t, found, "entity %s/%s not extracted", tt.entityKind, tt.entityVal)
		})
	}
}

func TestAnalyzeQuotedTitle(t *testing.T) {
	analysis := heuristicAnalyzer().Analyze(context.Background(), `"the matrix"`)
	assert.Equal(t, entity.IntentSpecificTitle, analysis.Intent)
}

func TestAnalyzeComplexity(t *testing.T) {
	a := heuristicAnalyzer()

	assert.Equal(t, entity.ComplexitySimple, a.Analyze(context.Background(), "batman").Complexity)
	assert.Equal(t, entity.ComplexityModerate, a.Analyze(context.Background(), "best space movies ever").Complexity)
	assert.Equal(t, entity.ComplexityComplex,
		a.Analyze(context.Background(), "something exciting to watch with friends tonight please").Complexity)
}

func TestAnalyzeStopwordsNotPersonNames(t *testing.T) {
	analysis := heuristicAnalyzer().Analyze(context.Background(), "good movies")
	for _, e := range analysis.Entities {
		assert.NotEqual(t, entity.EntityKindPerson, e.Kind)
	}
	assert.Equal(t, entity.IntentGeneral, analysis.Intent)
}

func TestAnalyzeLLMPath(t *testing.T) {
	chatModel := &stubChatModel{content: `Here you go:
{"intent":"mood_search","entities":[{"kind":"mood","value":"scary","confidence":0.92}],"mood":"scary","complexity":"simple","confidence":0.9}`}

	analysis := llmAnalyzer(chatModel).Analyze(context.Background(), "something scary")

	assert.True(t, analysis.AIPowered)
	assert.Equal(t, entity.IntentMoodSearch, analysis.Intent)
	assert.Equal(t, "scary", analysis.Mood)
	assert.InDelta(t, 0.9, analysis.Confidence, 1e-9)
	require.Len(t, analysis.Entities, 1)
	assert.Equal(t, entity.EntityKindMood, analysis.Entities[0].Kind)
}

func TestAnalyzeLLMInvalidPayloadFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		chatModel model.BaseChatModel
	}{
		{"model error", &stubChatModel{err: errors.New("rate limited")}},
		{"not json", &stubChatModel{content: "sorry, I cannot help with that"}},
		{"invalid intent", &stubChatModel{content: `{"intent":"buy_tickets","confidence":0.9}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := llmAnalyzer(tt.chatModel).Analyze(context.Background(), "funny movies")

			// 启发式兜底结果
			assert.False(t, analysis.AIPowered)
			assert.Equal(t, entity.IntentMoodSearch, analysis.Intent)
			assert.Equal(t, "funny", analysis.Mood)
		})
	}
}

func TestAnalyzeLLMClampsConfidence(t *testing.T) {
	chatModel := &stubChatModel{content: `{"intent":"general","confidence":7.5,"entities":[{"kind":"year","value":"1999","confidence":-2}]}`}

	analysis := llmAnalyzer(chatModel).Analyze(context.Background(), "movies from 1999")

	assert.Equal(t, 1.0, analysis.Confidence)
	require.Len(t, analysis.Entities, 1)
	assert.Zero(t, analysis.Entities[0].Confidence)
}
