package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStoryRequest() *StoryRequest {
	return &StoryRequest{
		Characters: []Character{
			{Name: "Emma", Pronouns: PronounSheHer},
		},
		Topic:      TopicDragons,
		Keywords:   []string{"wand", "backpack", "wolf"},
		AgeBand:    AgeBand5To6,
		LengthTier: LengthMedium,
	}
}

func TestStoryRequest_Validate(t *testing.T) {
	t.Run("a fully valid request has no issues", func(t *testing.T) {
		req := validStoryRequest()
		assert.Empty(t, req.Validate())
		assert.True(t, req.IsValid())
	})

	t.Run("five keywords are also accepted", func(t *testing.T) {
		req := validStoryRequest()
		req.Keywords = []string{"wand", "backpack", "wolf", "star", "map"}
		assert.Empty(t, req.Validate())
	})

	t.Run("four keywords are rejected", func(t *testing.T) {
		req := validStoryRequest()
		req.Keywords = []string{"wand", "backpack", "wolf", "star"}
		issues := req.Validate()
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "exactly 3 or 5 keywords")
	})

	t.Run("all issues are reported at once", func(t *testing.T) {
		req := &StoryRequest{
			Characters: []Character{
				{Name: "Emma99", Pronouns: "she"},
			},
			Topic:      "pirates",
			Keywords:   []string{"wand", " ", "wolf", "star"},
			AgeBand:    "2-3",
			LengthTier: "epic",
		}
		issues := req.Validate()
		// 姓名、代词、主题、关键词数量、空关键词、年龄段、长度档位
		assert.Len(t, issues, 7)

		joined := strings.Join(issues, "\n")
		assert.Contains(t, joined, "characters[0].name")
		assert.Contains(t, joined, "characters[0].pronouns")
		assert.Contains(t, joined, "topic invalid")
		assert.Contains(t, joined, "keyword count invalid")
		assert.Contains(t, joined, "keywords[1] must not be blank")
		assert.Contains(t, joined, "age_band invalid")
		assert.Contains(t, joined, "length_tier invalid")
	})

	t.Run("character count limits", func(t *testing.T) {
		req := validStoryRequest()
		req.Characters = nil
		issues := req.Validate()
		require.NotEmpty(t, issues)
		assert.Contains(t, issues[0], "at least one character")

		req = validStoryRequest()
		for i := 0; i < 6; i++ {
			req.Characters = append(req.Characters, Character{Name: "Leo", Pronouns: PronounHeHim})
		}
		issues = req.Validate()
		require.NotEmpty(t, issues)
		assert.Contains(t, issues[0], "maximum 5 characters")
	})
}

func TestTargetWordCountRange(t *testing.T) {
	t.Run("known combinations come from the table", func(t *testing.T) {
		min, max := TargetWordCountRange(AgeBand5To6, LengthMedium)
		assert.Equal(t, 120, min)
		assert.Equal(t, 250, max)

		min, max = TargetWordCountRange(AgeBand3To4, LengthShort)
		assert.Equal(t, 50, min)
		assert.Equal(t, 100, max)

		min, max = TargetWordCountRange(AgeBand9To10, LengthLong)
		assert.Equal(t, 500, min)
		assert.Equal(t, 700, max)
	})

	t.Run("unknown combinations fall back to 5-6 medium", func(t *testing.T) {
		min, max := TargetWordCountRange("2-3", "epic")
		assert.Equal(t, 120, min)
		assert.Equal(t, 250, max)
	})

	t.Run("ranges grow with age band and length tier", func(t *testing.T) {
		ages := AllAgeBands()
		tiers := AllLengthTiers()

		for _, age := range ages {
			for i := 1; i < len(tiers); i++ {
				prevMin, prevMax := TargetWordCountRange(age, tiers[i-1])
				curMin, curMax := TargetWordCountRange(age, tiers[i])
				assert.Greater(t, curMin, prevMin, "min should grow with tier for %s", age)
				assert.Greater(t, curMax, prevMax, "max should grow with tier for %s", age)
			}
		}

		for _, tier := range tiers {
			for i := 1; i < len(ages); i++ {
				prevMin, prevMax := TargetWordCountRange(ages[i-1], tier)
				curMin, curMax := TargetWordCountRange(ages[i], tier)
				assert.GreaterOrEqual(t, curMin, prevMin, "min should not shrink with age for %s", tier)
				assert.GreaterOrEqual(t, curMax, prevMax, "max should not shrink with age for %s", tier)
			}
		}
	})

	t.Run("every range has min below max", func(t *testing.T) {
		for _, age := range AllAgeBands() {
			for _, tier := range AllLengthTiers() {
				min, max := TargetWordCountRange(age, tier)
				assert.Less(t, min, max)
				assert.Positive(t, min)
			}
		}
	})
}

func TestStoryRequest_TargetWordCountRange(t *testing.T) {
	req := validStoryRequest()
	min, max := req.TargetWordCountRange()
	assert.Equal(t, 120, min)
	assert.Equal(t, 250, max)
}

func TestStoryRequest_Validate_Idempotent(t *testing.T) {
	req := validStoryRequest()
	req.AgeBand = "2-3"
	req.Keywords = []string{"wand", "backpack", "wolf", "star"}

	first := req.Validate()
	second := req.Validate()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}
