package outfit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveTemp(t *testing.T) {
	table := DefaultRules()

	t.Run("feels like wins over air temperature", func(t *testing.T) {
		p := Point{TempF: 70, FeelsLikeF: 66}
		assert.Equal(t, 66.0, EffectiveTemp(p, Preferences{}, table))
	})

	t.Run("air temperature when feels like not reported", func(t *testing.T) {
		p := Point{TempF: 50}
		assert.Equal(t, 50.0, EffectiveTemp(p, Preferences{}, table))
	})

	t.Run("cold tolerance shifts perception", func(t *testing.T) {
		p := Point{FeelsLikeF: 70}
		assert.Equal(t, 65.0, EffectiveTemp(p, Preferences{ColdTolerance: ToleranceGetsCold}, table))
		assert.Equal(t, 75.0, EffectiveTemp(p, Preferences{ColdTolerance: ToleranceRarelyCold}, table))
	})

	t.Run("invalid tolerance is treated as neutral", func(t *testing.T) {
		p := Point{FeelsLikeF: 70}
		assert.Equal(t, 70.0, EffectiveTemp(p, Preferences{ColdTolerance: 4}, table))
	})

	t.Run("night feels colder", func(t *testing.T) {
		p := Point{FeelsLikeF: 70, IsNight: true}
		assert.Equal(t, 67.0, EffectiveTemp(p, Preferences{}, table))
	})
}

func TestDerive(t *testing.T) {
	table := DefaultRules()

	tests := []struct {
		name  string
		point Point
		prefs Preferences
		want  Outfit
	}{
		{
			name:  "hot clear day",
			point: Point{TempF: 85, FeelsLikeF: 87, Condition: ConditionClear},
			want:  Outfit{Band: "hot", Top: "t-shirt", Bottom: "shorts", Accessories: []string{"sunglasses"}},
		},
		{
			name:  "hot clear night has no sunglasses",
			point: Point{FeelsLikeF: 90, Condition: ConditionClear, IsNight: true},
			want:  Outfit{Band: "hot", Top: "t-shirt", Bottom: "shorts"},
		},
		{
			name:  "gets cold easily drops a band",
			point: Point{FeelsLikeF: 70, Condition: ConditionClouds},
			prefs: Preferences{ColdTolerance: ToleranceGetsCold},
			want:  Outfit{Band: "mild", Top: "sweater", Bottom: "pants"},
		},
		{
			name:  "layering preference",
			point: Point{FeelsLikeF: 60, Condition: ConditionClouds},
			prefs: Preferences{PrefersLayers: true},
			want:  Outfit{Band: "mild", Top: "light jacket", Bottom: "pants", Layers: []string{"t-shirt", "light jacket"}},
		},
		{
			name:  "rain adds an umbrella",
			point: Point{FeelsLikeF: 50, Condition: ConditionRain},
			want:  Outfit{Band: "cool", Top: "jacket", Bottom: "pants", Accessories: []string{"umbrella"}},
		},
		{
			name:  "excluded items fall back to alternates",
			point: Point{FeelsLikeF: 50, Condition: ConditionDrizzle},
			prefs: Preferences{ExcludedItems: []string{"Jacket", "pants", "umbrella"}},
			want:  Outfit{Band: "cool", Top: "hoodie", Bottom: "jeans"},
		},
		{
			name:  "preferred alternate wins over primary",
			point: Point{FeelsLikeF: 50, Condition: ConditionClouds},
			prefs: Preferences{PreferredItems: []string{"jeans"}},
			want:  Outfit{Band: "cool", Top: "jacket", Bottom: "jeans"},
		},
		{
			name:  "freezing snow dedupes accessories",
			point: Point{FeelsLikeF: 20, Condition: ConditionSnow},
			want: Outfit{
				Band:        "freezing",
				Top:         "thick jacket",
				Bottom:      "pants",
				Accessories: []string{"scarf", "gloves", "beanie", "boots"},
			},
		},
		{
			name:  "excluded layer collapses to remaining layers",
			point: Point{FeelsLikeF: 40, Condition: ConditionClouds},
			prefs: Preferences{PrefersLayers: true, ExcludedItems: []string{"sweater"}},
			want:  Outfit{Band: "cold", Top: "thick jacket", Bottom: "pants", Accessories: []string{"scarf", "gloves"}},
		},
		{
			name:  "excluded outer layer is swapped for an alternate",
			point: Point{FeelsLikeF: 38, Condition: ConditionClouds},
			prefs: Preferences{PrefersLayers: true, ExcludedItems: []string{"thick jacket"}},
			want: Outfit{
				Band:        "cold",
				Top:         "jacket",
				Bottom:      "pants",
				Layers:      []string{"sweater", "jacket"},
				Accessories: []string{"scarf", "gloves"},
			},
		},
		{
			name:  "excluded outer layer honours a preferred alternate",
			point: Point{FeelsLikeF: 60, Condition: ConditionClouds},
			prefs: Preferences{PrefersLayers: true, ExcludedItems: []string{"light jacket"}, PreferredItems: []string{"rain jacket"}},
			want:  Outfit{Band: "mild", Top: "rain jacket", Bottom: "pants", Layers: []string{"t-shirt", "rain jacket"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.point, tt.prefs, table)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Derive() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	table := DefaultRules()
	p := Point{FeelsLikeF: 61, Condition: ConditionRain}
	prefs := Preferences{PrefersLayers: true, PreferredItems: []string{"hoodie"}}

	first := Derive(p, prefs, table)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(Derive(p, prefs, table)))
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		outfit Outfit
		want   string
	}{
		{
			name:   "single top",
			outfit: Outfit{Top: "t-shirt", Bottom: "shorts", Accessories: []string{"sunglasses"}},
			want:   "Wear a t-shirt and shorts. Bring sunglasses.",
		},
		{
			name:   "layers",
			outfit: Outfit{Top: "light jacket", Layers: []string{"t-shirt", "light jacket"}, Bottom: "pants", Accessories: []string{"umbrella"}},
			want:   "Layer up with a t-shirt and a light jacket and pants. Bring an umbrella.",
		},
		{
			name:   "three accessories",
			outfit: Outfit{Top: "thick jacket", Bottom: "jeans", Accessories: []string{"scarf", "gloves", "beanie"}},
			want:   "Wear a thick jacket and jeans. Bring a scarf, gloves and a beanie.",
		},
		{
			name:   "bottom only",
			outfit: Outfit{Bottom: "pants"},
			want:   "Wear pants.",
		},
		{
			name: "empty",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.outfit))
		})
	}
}

func TestParseCondition(t *testing.T) {
	assert.Equal(t, ConditionRain, ParseCondition("Rain"))
	assert.Equal(t, ConditionClouds, ParseCondition(" clouds "))
	assert.Equal(t, ConditionMist, ParseCondition("Haze"))
	assert.Equal(t, ConditionUnknown, ParseCondition("meteor shower"))
	assert.True(t, ConditionThunderstorm.IsWet())
	assert.False(t, ConditionSnow.IsWet())
}

func TestOutfitItems(t *testing.T) {
	o := Outfit{Top: "jacket", Layers: []string{"sweater", "jacket"}, Bottom: "pants", Accessories: []string{"umbrella"}}
	assert.Equal(t, []string{"sweater", "jacket", "pants", "umbrella"}, o.Items())

	o = Outfit{Top: "t-shirt", Bottom: "shorts"}
	assert.Equal(t, []string{"t-shirt", "shorts"}, o.Items())
}
