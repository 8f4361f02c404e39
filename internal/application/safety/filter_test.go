package safety

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"wondertales-api/internal/domain/entity"
)

func TestFilter_FilterInappropriateKeywords(t *testing.T) {
	f := NewFilter()

	t.Run("unsafe keywords are dropped, order preserved", func(t *testing.T) {
		in := []string{"happy", "scary", "play", "violent", "friend", "death", "love"}
		out := f.FilterInappropriateKeywords(in)
		assert.Equal(t, []string{"happy", "play", "friend", "love"}, out)
	})

	t.Run("matching is case-insensitive and substring-based", func(t *testing.T) {
		out := f.FilterInappropriateKeywords([]string{"SCARY", "  Monster  ", "skill"})
		// "skill" 含 "kill" 子串，按策略一并拒绝
		assert.Empty(t, out)
	})

	t.Run("safe keywords pass through unchanged", func(t *testing.T) {
		in := []string{"wand", "backpack", "wolf"}
		assert.Equal(t, in, f.FilterInappropriateKeywords(in))
	})
}

func TestFilter_ValidateKeywords(t *testing.T) {
	f := NewFilter()
	assert.True(t, f.ValidateKeywords([]string{"wand", "backpack", "wolf"}))
	assert.False(t, f.ValidateKeywords([]string{"wand", "ghost", "wolf"}))
	assert.True(t, f.ValidateKeywords(nil))
}

func TestFilter_ValidateStoryContent(t *testing.T) {
	f := NewFilter()

	t.Run("a happy simple story passes", func(t *testing.T) {
		assert.True(t, f.ValidateStoryContent("Emma smiled and played with her friend all day."))
	})

	t.Run("empty text fails", func(t *testing.T) {
		assert.False(t, f.ValidateStoryContent(""))
		assert.False(t, f.ValidateStoryContent("   \n  "))
	})

	t.Run("banned terms fail even inside larger words", func(t *testing.T) {
		assert.False(t, f.ValidateStoryContent("Emma was happy to show her skill."))
		assert.False(t, f.ValidateStoryContent("A happy GHOST waved."))
	})

	t.Run("complexity features fail", func(t *testing.T) {
		assert.False(t, f.ValidateStoryContent("Emma was happy; she played."))
		assert.False(t, f.ValidateStoryContent("Emma was happy. Nevertheless she played."))
		assert.False(t, f.ValidateStoryContent("Emma felt happy and incomprehensible."))
	})

	t.Run("text with no positivity fails", func(t *testing.T) {
		assert.False(t, f.ValidateStoryContent("Emma walked to the store."))
	})
}

func TestFilter_ValidateAgeAppropriateVocabulary(t *testing.T) {
	f := NewFilter()

	t.Run("simple words pass", func(t *testing.T) {
		assert.True(t, f.ValidateAgeAppropriateVocabulary("Emma played in the sun."))
	})

	t.Run("allow-listed long words pass", func(t *testing.T) {
		assert.True(t, f.ValidateAgeAppropriateVocabulary("It was a wonderful adventure with sparkling butterflies."))
	})

	t.Run("long words outside the allow list fail", func(t *testing.T) {
		assert.False(t, f.ValidateAgeAppropriateVocabulary("The magnificent garden."))
	})

	t.Run("exact banned words fail, superstrings pass", func(t *testing.T) {
		assert.False(t, f.ValidateAgeAppropriateVocabulary("Do not fight."))
		// 整词比较，skill 不等于 kill
		assert.True(t, f.ValidateAgeAppropriateVocabulary("Emma has a new skill."))
	})
}

func TestFilter_ValidateThemeSafety(t *testing.T) {
	f := NewFilter()

	t.Run("neutral keywords are fine with every topic", func(t *testing.T) {
		kws := []string{"wand", "backpack", "wolf"}
		for _, topic := range entity.AllTopics() {
			assert.True(t, f.ValidateThemeSafety(topic, kws), "topic %s", topic)
		}
	})

	t.Run("danger words only reject their own topic", func(t *testing.T) {
		assert.False(t, f.ValidateThemeSafety(entity.TopicDragons, []string{"fire", "wand", "wolf"}))
		assert.True(t, f.ValidateThemeSafety(entity.TopicSpace, []string{"fire", "wand", "wolf"}))

		assert.False(t, f.ValidateThemeSafety(entity.TopicSpace, []string{"crash", "wand", "wolf"}))
		assert.True(t, f.ValidateThemeSafety(entity.TopicFairies, []string{"crash", "wand", "wolf"}))
	})

	t.Run("invalid topic fails", func(t *testing.T) {
		assert.False(t, f.ValidateThemeSafety("pirates", []string{"wand"}))
	})

	t.Run("banned keywords fail regardless of topic", func(t *testing.T) {
		assert.False(t, f.ValidateThemeSafety(entity.TopicSpace, []string{"ghost"}))
	})
}

func TestFilter_ContentSafetyScore(t *testing.T) {
	f := NewFilter()

	t.Run("score stays within 0 and 1", func(t *testing.T) {
		texts := []string{
			"",
			"Emma smiled and played with her friend.",
			"scary scary scary scary monster ghost evil",
			strings.Repeat("happy friend kind love joy ", 10),
		}
		for _, text := range texts {
			score := f.ContentSafetyScore(text)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("banned terms lower the score", func(t *testing.T) {
		clean := f.ContentSafetyScore("Emma smiled at her friend.")
		tainted := f.ContentSafetyScore("Emma smiled at the scary monster, her friend.")
		assert.Greater(t, clean, tainted)
	})
}

func TestFilter_SanitizeForPrompt(t *testing.T) {
	f := NewFilter()

	t.Run("known words use the replacement table", func(t *testing.T) {
		out := f.SanitizeForPrompt("a scary monster in a dark forest")
		assert.Equal(t, "a surprising creature in a cozy forest", out)
	})

	t.Run("leftover banned substrings get the neutral substitute", func(t *testing.T) {
		out := f.SanitizeForPrompt("a skill test")
		lower := strings.ToLower(out)
		assert.NotContains(t, lower, "kill")
	})

	t.Run("result never contains banned substrings", func(t *testing.T) {
		out := f.SanitizeForPrompt("violent battle with an evil ghost and a weapon")
		lower := strings.ToLower(out)
		for _, banned := range bannedTerms {
			assert.NotContains(t, lower, banned)
		}
	})

	t.Run("safe text is unchanged", func(t *testing.T) {
		in := "Emma and her friendly wolf"
		assert.Equal(t, in, f.SanitizeForPrompt(in))
	})
}
