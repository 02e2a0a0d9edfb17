package search

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	workflowprompt "streamguide-api/internal/workflow/prompt"
)

func llmInsightGenerator(chatModel model.BaseChatModel) *InsightGenerator {
	return NewInsightGenerator(
		&stubFactory{chatModel: chatModel},
		workflowprompt.NewRegistry(),
		&config.LLMConfig{Enabled: true, DefaultProvider: "openai"},
	)
}

func templateInsightGenerator() *InsightGenerator {
	return NewInsightGenerator(nil, nil, nil)
}

func titledResults(titles ...string) []entity.CatalogItem {
	items := make([]entity.CatalogItem, len(titles))
	for i, title := range titles {
		items[i] = entity.CatalogItem{ID: int64(i + 1), MediaType: entity.MediaTypeMovie, Title: title}
	}
	return items
}

func TestInsightLLMPath(t *testing.T) {
	chatModel := &stubChatModel{content: `Here you go:
{"explanation": "Comedies matching a light mood.", "suggestions": ["feel-good films", "romcoms", "stand-up specials", "sitcoms"]}`}

	analysis := &entity.QueryAnalysis{Query: "funny movies", Intent: entity.IntentMoodSearch, Mood: "funny"}
	insight := llmInsightGenerator(chatModel).Generate(context.Background(), analysis, titledResults("Airplane!", "The Mask"))

	require.NotNil(t, insight)
	assert.Equal(t, "Comedies matching a light mood.", insight.Explanation)
	// 建议最多保留 3 条
	assert.Len(t, insight.Suggestions, 3)
}

func TestInsightLLMFailureFallsBackToTemplate(t *testing.T) {
	tests := []struct {
		name      string
		chatModel *stubChatModel
	}{
		{"model error", &stubChatModel{err: errors.New("timeout")}},
		{"empty completion", &stubChatModel{content: "   "}},
		{"not json", &stubChatModel{content: "sorry, I can't help"}},
		{"missing explanation", &stubChatModel{content: `{"suggestions": ["a"]}`}},
	}

	analysis := &entity.QueryAnalysis{Query: "funny movies", Intent: entity.IntentMoodSearch, Mood: "funny"}
	results := titledResults("Airplane!", "The Mask")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight := llmInsightGenerator(tt.chatModel).Generate(context.Background(), analysis, results)

			require.NotNil(t, insight)
			assert.Contains(t, insight.Explanation, "funny")
			assert.Contains(t, insight.Explanation, "Airplane!")
		})
	}
}

func TestInsightTemplatePerIntent(t *testing.T) {
	g := templateInsightGenerator()
	results := titledResults("Forrest Gump", "Cast Away")

	mood := g.Generate(context.Background(), &entity.QueryAnalysis{
		Query: "funny movies", Intent: entity.IntentMoodSearch, Mood: "funny",
	}, results)
	assert.Contains(t, mood.Explanation, "funny")

	actor := g.Generate(context.Background(), &entity.QueryAnalysis{
		Query: "tom hanks", Intent: entity.IntentActorSearch,
	}, results)
	assert.Contains(t, actor.Explanation, "tom hanks")
	assert.Contains(t, actor.Explanation, "Forrest Gump")

	general := g.Generate(context.Background(), &entity.QueryAnalysis{
		Query: "good movies", Intent: entity.IntentGeneral,
	}, results)
	assert.Contains(t, general.Explanation, "good movies")
}

func TestInsightEmptyResults(t *testing.T) {
	insight := templateInsightGenerator().Generate(context.Background(), &entity.QueryAnalysis{
		Query: "zxqv", Intent: entity.IntentGeneral,
	}, nil)

	require.NotNil(t, insight)
	assert.Contains(t, insight.Explanation, "zxqv")
	assert.Empty(t, insight.Suggestions)
}

func TestInsightSkipsUntitledResults(t *testing.T) {
	results := []entity.CatalogItem{
		{ID: 1, MediaType: entity.MediaTypeMovie},
		{ID: 2, MediaType: entity.MediaTypeMovie, Title: "Named"},
	}

	insight := templateInsightGenerator().Generate(context.Background(), &entity.QueryAnalysis{
		Query: "anything", Intent: entity.IntentGeneral,
	}, results)

	require.NotNil(t, insight)
	assert.Contains(t, insight.Explanation, "Named")
}
