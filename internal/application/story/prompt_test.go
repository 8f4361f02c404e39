package story

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wondertales-api/internal/domain/entity"
)

func promptTestRequest() *entity.StoryRequest {
	return &entity.StoryRequest{
		Characters: []entity.Character{
			{Name: "Emma", Pronouns: entity.PronounSheHer},
			{Name: "Leo", Pronouns: entity.PronounTheyThem},
		},
		Topic:      entity.TopicDragons,
		Keywords:   []string{"wand", "backpack", "wolf"},
		AgeBand:    entity.AgeBand5To6,
		LengthTier: entity.LengthMedium,
	}
}

func TestBuildPromptVars(t *testing.T) {
	vars := BuildPromptVars(promptTestRequest())

	t.Run("word range comes from the request", func(t *testing.T) {
		assert.Equal(t, 120, vars.MinWords)
		assert.Equal(t, 250, vars.MaxWords)
	})

	t.Run("characters and pronoun forms are spelled out", func(t *testing.T) {
		assert.Equal(t, "Emma, Leo", vars.CharacterList)
		assert.Contains(t, vars.PronounInstructions, `Refer to Emma as "she"`)
		assert.Contains(t, vars.PronounInstructions, `"her" (object)`)
		assert.Contains(t, vars.PronounInstructions, `Refer to Leo as "they"`)
		assert.Contains(t, vars.PronounInstructions, `"their" as the possessive`)
	})

	t.Run("keywords become story items", func(t *testing.T) {
		assert.Contains(t, vars.ItemInstructions, `"wand"`)
		assert.Contains(t, vars.ItemInstructions, `"backpack"`)
		assert.Contains(t, vars.ItemInstructions, `"wolf"`)
	})

	t.Run("topic and age band shape the context", func(t *testing.T) {
		assert.Equal(t, "5-6", vars.AgeBand)
		assert.Contains(t, vars.TopicContext, "dragons")
		assert.NotEmpty(t, vars.VocabularyDirective)
	})
}

func TestBuildPromptVars_DefaultItems(t *testing.T) {
	req := promptTestRequest()
	req.Keywords = []string{"wand", "  ", ""}
	vars := BuildPromptVars(req)

	// 空关键词用默认道具补位
	assert.Contains(t, vars.ItemInstructions, `"wand"`)
	assert.Contains(t, vars.ItemInstructions, `"adventure backpack"`)
	assert.Contains(t, vars.ItemInstructions, `"friendly wolf"`)
}

func TestBuildPromptVars_FiveKeywords(t *testing.T) {
	req := promptTestRequest()
	req.Keywords = []string{"wand", "backpack", "wolf", "star", "flower"}
	vars := BuildPromptVars(req)

	// 前三个占道具角色，第四、五个作为自由元素织入
	assert.Contains(t, vars.ItemInstructions, `"wand" plays the part of`)
	assert.Contains(t, vars.ItemInstructions, `Include "star" naturally`)
	assert.Contains(t, vars.ItemInstructions, `Include "flower" naturally`)
}

func TestCharacterNameList(t *testing.T) {
	assert.Equal(t, "Emma, Leo", CharacterNameList(promptTestRequest()))
}
