package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes/products"
)

func TestParseFrontMatter(t *testing.T) {
	t.Run("Recipe", func(t *testing.T) {
		contents, err := os.ReadFile(filepath.Join("testdata", "pancakes.md"))
		require.NoError(t, err)
		header, body, err := parseFrontMatter(contents)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", header.Name)
		assert.Equal(t, "breakfast", header.Tags)
		require.Len(t, header.Ingredients, 3)
		assert.Equal(t, ingredientRecord{Label: "Flour", Quantity: 250, Unit: "gram"}, header.Ingredients[2])
		assert.Equal(t, "Mix everything, rest for ten minutes, fry in butter.", body)
	})

	t.Run("WindowsLineEndings", func(t *testing.T) {
		header, body, err := parseFrontMatter([]byte("---\r\nname: Toast\r\n---\r\nToast it.\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Toast", header.Name)
		assert.Equal(t, "Toast it.", body)
	})

	t.Run("Missing", func(t *testing.T) {
		_, _, err := parseFrontMatter([]byte("# Pancakes\n"))
		assert.Error(t, err)
	})

	t.Run("Unterminated", func(t *testing.T) {
		_, _, err := parseFrontMatter([]byte("---\nname: Pancakes\n"))
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		_, _, err := parseFrontMatter([]byte("---\nname: [\n---\n"))
		assert.Error(t, err)
	})
}

func TestIngredientInput(t *testing.T) {
	catalog := []products.Product{
		{Id: "milk", Name: "Milk", Unit: data.LITER},
		{Id: "egg", Name: "Egg", NamePlural: ptr("Eggs"), Unit: data.UNIT},
	}

	t.Run("MatchesNameIgnoringCase", func(t *testing.T) {
		input, err := ingredientInput(catalog, ingredientRecord{Label: "MILK", Quantity: 0.5})
		require.NoError(t, err)
		assert.Equal(t, "milk", *input.ProductId)
		assert.Nil(t, input.Label)
		assert.Equal(t, "0.5", input.Quantity.String())
	})

	t.Run("MatchesPlural", func(t *testing.T) {
		input, err := ingredientInput(catalog, ingredientRecord{Label: "eggs", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "egg", *input.ProductId)
	})

	t.Run("FallsBackToLabel", func(t *testing.T) {
		input, err := ingredientInput(catalog, ingredientRecord{Label: "Flour", Quantity: 250, Unit: "gram"})
		require.NoError(t, err)
		assert.Nil(t, input.ProductId)
		assert.Equal(t, "Flour", *input.Label)
		assert.Equal(t, data.GRAM, *input.Unit)
	})

	t.Run("RejectsUnknownUnit", func(t *testing.T) {
		_, err := ingredientInput(catalog, ingredientRecord{Label: "Flour", Quantity: 1, Unit: "cup"})
		assert.Error(t, err)
	})
}
