package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t  "))
	assert.Equal(t, 3, CountWords("Emma loved dragons"))
	assert.Equal(t, 3, CountWords("  Emma\nloved\tdragons  "))
}

func TestNewGeneratedStory(t *testing.T) {
	req := validStoryRequest()
	story := NewGeneratedStory("  The Gentle Dragon  ", "Emma met a gentle dragon today.", "Always be kind.", req)

	require.NotNil(t, story)
	assert.NotEmpty(t, story.ID)
	assert.Equal(t, "The Gentle Dragon", story.Title)
	assert.Equal(t, "Always be kind.", story.Moral)
	assert.Equal(t, req.Topic, story.Topic)
	assert.Equal(t, req.AgeBand, story.AgeBand)
	assert.Equal(t, req.LengthTier, story.LengthTier)
	assert.Equal(t, 120, story.TargetMinWords)
	assert.Equal(t, 250, story.TargetMaxWords)
	assert.False(t, story.CreatedAt.IsZero())

	// 词数以正文为准重新计算
	assert.Equal(t, CountWords(story.Content), story.WordCount)
	assert.Equal(t, 6, story.WordCount)

	// 角色切片是副本，改请求不影响故事
	req.Characters[0].Name = "Leo"
	assert.Equal(t, "Emma", story.Characters[0].Name)
}

func TestGeneratedStory_AttachIllustration(t *testing.T) {
	story := NewGeneratedStory("t", "Emma smiled.", "m", validStoryRequest())

	story.AttachIllustration("   ")
	assert.Empty(t, story.IllustrationURL)

	story.AttachIllustration("https://images.example/a.png")
	assert.Equal(t, "https://images.example/a.png", story.IllustrationURL)
}

func TestGeneratedStory_ContainsCharacterNames(t *testing.T) {
	req := validStoryRequest()
	req.Characters = append(req.Characters, Character{Name: "Leo", Pronouns: PronounHeHim})

	t.Run("all names present, case-insensitive", func(t *testing.T) {
		story := NewGeneratedStory("t", "EMMA and leo played all day.", "m", req)
		assert.True(t, story.ContainsCharacterNames())
	})

	t.Run("missing a name fails", func(t *testing.T) {
		story := NewGeneratedStory("t", "Emma played alone.", "m", req)
		assert.False(t, story.ContainsCharacterNames())
	})
}
