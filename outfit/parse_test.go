package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestParseLabel(t *testing.T) {
	vocab := DefaultRules().Vocabulary

	tests := []struct {
		label string
		want  Slots
	}{
		{
			label: "Dress light with a short sleeve shirt and pants",
			want:  Slots{Top: strptr("shirt"), Bottom: strptr("pants")},
		},
		{
			label: "Bundle up with a big jacket",
			want:  Slots{Top: strptr("jacket")},
		},
		{
			label: "Wear a light jacket over a t-shirt, and bring an umbrella.",
			want:  Slots{Top: strptr("light jacket"), Accessory: strptr("umbrella")},
		},
		{
			label: "SHORTS and a T-Shirt today",
			want:  Slots{Top: strptr("t-shirt"), Bottom: strptr("shorts")},
		},
		{
			label: "Pack two jackets and your gloves",
			want:  Slots{Top: strptr("jacket"), Accessory: strptr("gloves")},
		},
		{
			label: "Wear a sweatshirt and sweatpants",
			want:  Slots{Top: strptr("shirt"), Bottom: strptr("pants")},
		},
		{
			label: "Participants should stay inside",
			want:  Slots{Bottom: strptr("pants")},
		},
		{
			label: "   ",
			want:  Slots{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.label, vocab))
		})
	}
}

func TestParseLabelWholeWords(t *testing.T) {
	vocab := DefaultRules().Vocabulary
	vocab.WholeWords = true

	tests := []struct {
		label string
		want  Slots
	}{
		{
			label: "Wear a sweatshirt and sweatpants",
			want:  Slots{},
		},
		{
			label: "Participants should stay inside",
			want:  Slots{},
		},
		{
			label: "Pack two jackets and your gloves",
			want:  Slots{Top: strptr("jacket"), Accessory: strptr("gloves")},
		},
		{
			label: "SHORTS and a T-Shirt today",
			want:  Slots{Top: strptr("t-shirt"), Bottom: strptr("shorts")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.label, vocab))
		})
	}
}

func TestDefaultRulesMatchSubstrings(t *testing.T) {
	assert.False(t, DefaultRules().Vocabulary.WholeWords)
}

func TestParseLabelFollowsVocabularyOrder(t *testing.T) {
	vocab := Vocabulary{Tops: []string{"shirt", "jacket"}}
	got := ParseLabel("a jacket over a shirt", vocab)
	assert.Equal(t, "shirt", *got.Top)

	vocab = Vocabulary{Tops: []string{"jacket", "shirt"}}
	got = ParseLabel("a jacket over a shirt", vocab)
	assert.Equal(t, "jacket", *got.Top)
}

func TestAccepts(t *testing.T) {
	table := DefaultRules()
	vocab := table.Vocabulary

	rainy := Derive(Point{FeelsLikeF: 50, Condition: ConditionRain}, Preferences{}, table)
	hot := Derive(Point{FeelsLikeF: 90, Condition: ConditionClear}, Preferences{}, table)
	mild := Derive(Point{FeelsLikeF: 62, Condition: ConditionClouds}, Preferences{}, table)

	t.Run("label agrees with band", func(t *testing.T) {
		slots := ParseLabel("Wear a jacket and jeans, bring an umbrella", vocab)
		assert.True(t, Accepts(rainy, slots, Preferences{}, table))
	})

	t.Run("adjacent band is tolerated", func(t *testing.T) {
		slots := ParseLabel("A t-shirt and pants will do", vocab)
		assert.True(t, Accepts(mild, slots, Preferences{}, table))
	})

	t.Run("heavy jacket on a hot day is rejected", func(t *testing.T) {
		slots := ParseLabel("Bundle up with a heavy jacket", vocab)
		assert.False(t, Accepts(hot, slots, Preferences{}, table))
	})

	t.Run("accessory from a distant band is rejected", func(t *testing.T) {
		slots := ParseLabel("A t-shirt and shorts, plus a beanie", vocab)
		assert.False(t, Accepts(hot, slots, Preferences{}, table))
	})

	t.Run("accessory the weather calls for is accepted", func(t *testing.T) {
		slots := ParseLabel("A t-shirt and shorts, plus sunglasses", vocab)
		assert.True(t, Accepts(hot, slots, Preferences{}, table))
	})

	t.Run("accessory from an adjacent band is tolerated", func(t *testing.T) {
		cool := Derive(Point{FeelsLikeF: 50, Condition: ConditionClouds}, Preferences{}, table)
		slots := ParseLabel("A jacket and a scarf", vocab)
		assert.True(t, Accepts(cool, slots, Preferences{}, table))
	})

	t.Run("umbrella without rain is rejected", func(t *testing.T) {
		slots := ParseLabel("A sweater and an umbrella", vocab)
		assert.False(t, Accepts(mild, slots, Preferences{}, table))
	})

	t.Run("nothing parsed is rejected", func(t *testing.T) {
		assert.False(t, Accepts(hot, Slots{}, Preferences{}, table))
	})

	t.Run("excluded item is rejected", func(t *testing.T) {
		slots := ParseLabel("Jacket and umbrella", vocab)
		prefs := Preferences{ExcludedItems: []string{"umbrella"}}
		assert.False(t, Accepts(rainy, slots, prefs, table))
	})

	t.Run("unknown band is rejected", func(t *testing.T) {
		slots := ParseLabel("jacket", vocab)
		assert.False(t, Accepts(Outfit{Band: "tropical"}, slots, Preferences{}, table))
	})
}
