package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacter_ValidateName(t *testing.T) {
	t.Run("letters and spaces are accepted", func(t *testing.T) {
		for _, name := range []string{"Emma", "Mary Jane", "Li Wei", "A"} {
			c := Character{Name: name, Pronouns: PronounSheHer}
			assert.True(t, c.ValidateName(), "expected %q to be valid", name)
		}
	})

	t.Run("digits, punctuation and empty names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "   ", "R2D2", "Anna-Marie", "Emma!", "José"} {
			c := Character{Name: name}
			assert.False(t, c.ValidateName(), "expected %q to be invalid", name)
		}
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		c := Character{Name: "  Emma  "}
		assert.True(t, c.ValidateName())
	})
}

func TestCharacter_ValidatePronouns(t *testing.T) {
	t.Run("only the three canonical sets are accepted", func(t *testing.T) {
		for _, p := range []PronounSet{PronounHeHim, PronounSheHer, PronounTheyThem} {
			c := Character{Name: "Emma", Pronouns: p}
			assert.True(t, c.ValidatePronouns())
		}
	})

	t.Run("case and synonym variants are rejected", func(t *testing.T) {
		for _, p := range []PronounSet{"", "He/Him", "HE/HIM", "she", "they / them", "xe/xem"} {
			c := Character{Name: "Emma", Pronouns: p}
			assert.False(t, c.ValidatePronouns(), "expected %q to be invalid", p)
		}
	})
}

func TestNewCharacter(t *testing.T) {
	t.Run("valid input constructs the character", func(t *testing.T) {
		c, err := NewCharacter("Emma", PronounSheHer)
		require.NoError(t, err)
		assert.Equal(t, "Emma", c.Name)
		assert.Equal(t, PronounSheHer, c.Pronouns)
	})

	t.Run("invalid name fails with a field error", func(t *testing.T) {
		_, err := NewCharacter("Emma99", PronounSheHer)
		require.Error(t, err)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "character name", vErr.Field)
		assert.Equal(t, "Emma99", vErr.Value)
	})

	t.Run("invalid pronouns fail with a field error", func(t *testing.T) {
		_, err := NewCharacter("Emma", "she")
		require.Error(t, err)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "character pronouns", vErr.Field)
	})
}
