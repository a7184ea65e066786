package dish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_StrictJSONEmbeddedInProse(t *testing.T) {
	text := "Sure! Here is what I found:\n" +
		`{"name":"Tacos","region":"Mexico","ingredients":["corn"],"instructions":["cook"],"funFacts":["old"]}` +
		"\nEnjoy your meal!"

	r := Parse(text)

	assert.Equal(t, "Tacos", r.Name)
	assert.Equal(t, "Mexico", r.Region)
	assert.Equal(t, []string{"corn"}, r.Ingredients)
	assert.Equal(t, []string{"cook"}, r.Instructions)
	assert.Equal(t, []string{"old"}, r.FunFacts)
}

func TestParse_StrictJSONDefaultsRegion(t *testing.T) {
	text := `{"name":"Tacos","ingredients":["corn"],"instructions":["cook"],"funFacts":["old"]}`

	r := Parse(text)

	assert.Equal(t, "Tacos", r.Name)
	assert.Equal(t, UnknownRegion, r.Region)
}

func TestParse_StrictJSONInMarkdownFence(t *testing.T) {
	text := "```json\n" +
		`{"name":"Ramen","region":"Japan","ingredients":[],"instructions":[],"funFacts":[]}` +
		"\n```"

	r := Parse(text)

	assert.Equal(t, "Ramen", r.Name)
	assert.Equal(t, "Japan", r.Region)
	assert.Empty(t, r.Ingredients)
}

func TestParse_JSONMissingListsFallsThrough(t *testing.T) {
	// A JSON object without the list fields fails the shape check; with no
	// scrapeable sections either, the placeholder comes back.
	text := `{"name":"Tacos","region":"Mexico"}`

	r := Parse(text)

	assert.Equal(t, UnknownName, r.Name)
}

func TestParse_HeuristicSections(t *testing.T) {
	text := "Name: Pizza\nRegion: Italy\nIngredients\n- Flour\n- Cheese\nInstructions\n1. Mix\n2. Bake"

	r := Parse(text)

	assert.Equal(t, "Pizza", r.Name)
	assert.Equal(t, "Italy", r.Region)
	assert.Equal(t, []string{"Flour", "Cheese"}, r.Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, r.Instructions)
	assert.Equal(t, []string{}, r.FunFacts)
}

func TestParse_HeuristicBulletVariants(t *testing.T) {
	text := "name: Pho\nregion: Vietnam\nIngredients\n• Rice noodles\n• Broth\nFun Facts\n1. Usually eaten for breakfast."

	r := Parse(text)

	assert.Equal(t, "Pho", r.Name)
	assert.Equal(t, "Vietnam", r.Region)
	assert.Equal(t, []string{"Rice noodles", "Broth"}, r.Ingredients)
	assert.Equal(t, []string{"Usually eaten for breakfast."}, r.FunFacts)
}

func TestParse_HeuristicBlankLineBeforeFirstBullet(t *testing.T) {
	// Models often leave an empty line between the label and the list.
	// Blank lines are skipped until the run starts; once it has, the
	// first non-bullet line still ends it.
	text := "Name: Curry\nIngredients\n\n- Rice\n\n- Not collected"

	r := Parse(text)

	assert.Equal(t, []string{"Rice"}, r.Ingredients)
}

func TestParse_HeuristicRunEndsAtNonMatchingLine(t *testing.T) {
	text := "Name: Curry\nIngredients\n- Rice\nThat is all I can tell.\n- Not collected"

	r := Parse(text)

	assert.Equal(t, []string{"Rice"}, r.Ingredients)
}

func TestParse_LastResortPlaceholder(t *testing.T) {
	r := Parse("I'm sorry, I really can't tell what this is.")

	assert.Equal(t, UnknownName, r.Name)
	assert.Equal(t, UnknownRegion, r.Region)
	assert.Empty(t, r.Ingredients)
	assert.Empty(t, r.Instructions)
	assert.NotEmpty(t, r.FunFacts)
}

func TestParse_SlicesNeverNil(t *testing.T) {
	inputs := []string{
		`{"name":"Tacos","region":"Mexico","ingredients":["corn"],"instructions":["cook"],"funFacts":["old"]}`,
		"Name: Pizza\nIngredients\n- Flour",
		"nothing recognizable here",
		"",
	}
	for _, text := range inputs {
		r := Parse(text)
		assert.NotNil(t, r.Ingredients, "input %q", text)
		assert.NotNil(t, r.Instructions, "input %q", text)
		assert.NotNil(t, r.FunFacts, "input %q", text)
		assert.NotEmpty(t, r.Name, "input %q", text)
	}
}

func TestParse_NameOnlyHeuristicIsNotPlaceholder(t *testing.T) {
	r := Parse("Name: Goulash\nA hearty stew.")

	assert.Equal(t, "Goulash", r.Name)
	assert.Equal(t, UnknownRegion, r.Region)
	assert.Empty(t, r.FunFacts)
}
