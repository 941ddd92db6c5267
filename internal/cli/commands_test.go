package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/app"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/config"
	"philcali.me/groceries/internal/routes/shopping"
	"philcali.me/groceries/internal/test"
)

type harness struct {
	url    string
	client *client.Client
}

func newHarness(t *testing.T) *harness {
	cfg := config.Default()
	cfg.TokenSecret = test.TOKEN_SECRET
	cfg.Events.KeepAlive = time.Hour
	server := httptest.NewServer(app.NewWithDB(test.NewDatabase(t), cfg).Handler())
	t.Cleanup(server.Close)
	c, err := client.New(server.URL, server.Client())
	require.NoError(t, err)
	return &harness{url: server.URL, client: c}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--api-url", h.url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, "groceries %s", strings.Join(args, " "))
	return out
}

func TestCommands(t *testing.T) {
	h := newHarness(t)

	t.Run("Products", func(t *testing.T) {
		assert.Equal(t, "No data.\n", h.mustRun(t, "product", "list"))
		h.mustRun(t, "product", "create", "--name", "Milk", "--unit", "liter", "--default-quantity", "1")
		h.mustRun(t, "product", "import", `[{"name":"Egg","namePlural":"Eggs","unit":"unit","defaultQuantity":6},{"name":"Butter","unit":"gram","defaultQuantity":250}]`)
		h.mustRun(t, "product", "update", "butter", "--name", "Salted butter")

		out := h.mustRun(t, "product", "list")
		assert.Contains(t, out, "Egg")
		assert.Contains(t, out, "Salted butter")
		assert.Contains(t, out, "liter")

		_, err := h.run(t, "product", "create", "--name", "Bad", "--unit", "cup", "--default-quantity", "1")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		_, err = h.run(t, "product", "update", "nothing", "--name", "x")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("Stock", func(t *testing.T) {
		assert.Equal(t, "Milk: 2L\n", h.mustRun(t, "stock", "update", "milk", "2"))
		out := h.mustRun(t, "stock", "get")
		assert.Contains(t, out, "2L")
		_, err := h.run(t, "stock", "update", "milk", "lots")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("ShoppingList", func(t *testing.T) {
		h.mustRun(t, "list", "create", "--name", "Weekly")
		h.mustRun(t, "list", "add", "Weekly", "--product", "Eggs")
		h.mustRun(t, "list", "add", "current", "--label", "Flour", "--unit", "gram", "--quantity", "500")
		h.mustRun(t, "list", "item", "Weekly", "milk", "--quantity", "2")
		h.mustRun(t, "list", "item", "Weekly", "egg", "--checked")
		h.mustRun(t, "list", "item", "Weekly", "milk", "--no-quantity")

		out := h.mustRun(t, "--format", "json", "list", "get", "Weekly")
		var resp struct {
			Data shopping.ShoppingList `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		items := resp.Data.Items
		require.Len(t, items, 3)
		assert.Equal(t, "Egg", items[0].Label)
		assert.True(t, items[0].Checked)
		assert.Equal(t, "6", items[0].Quantity.String())
		assert.Equal(t, "Flour", items[1].Label)
		assert.Equal(t, "Milk", items[2].Label)
		assert.Nil(t, items[2].Quantity)

		h.mustRun(t, "list", "remove", "Weekly", "Eggs")
		h.mustRun(t, "list", "remove", "Weekly", "Eggs")
		text := h.mustRun(t, "list", "get", "Weekly")
		assert.Equal(t, "Product  Qty   Checked\nFlour    500g  \nMilk           \n", text)

		h.mustRun(t, "list", "finalize", "Weekly", "--date", "2026-10-17")
		_, err := h.run(t, "list", "get", "current")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		_, err = h.run(t, "list", "get", "Nope")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("Recipes", func(t *testing.T) {
		h.mustRun(t, "product", "create", "--name", "Flour", "--unit", "gram", "--default-quantity", "1000")
		h.mustRun(t, "recipe", "import", filepath.Join("testdata", "pancakes.md"))
		h.mustRun(t, "recipe", "create", "--name", "Toast", "--description", "Bread, toasted")
		h.mustRun(t, "recipe", "ingredient", "Toast", "Salted butter", "--quantity", "10")

		out := h.mustRun(t, "--format", "json", "recipe", "list")
		var resp struct {
			Data []struct {
				Id          string `json:"id"`
				Name        string `json:"name"`
				Ingredients []struct {
					Label     string  `json:"label"`
					ProductId *string `json:"productId"`
				} `json:"ingredients"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.Data, 2)
		pancakes := resp.Data[0]
		assert.Equal(t, "Pancakes", pancakes.Name)
		require.Len(t, pancakes.Ingredients, 3)
		for _, ingredient := range pancakes.Ingredients {
			assert.NotNil(t, ingredient.ProductId, ingredient.Label)
		}
		assert.Equal(t, []string{"Milk", "Egg", "Flour"}, []string{
			pancakes.Ingredients[0].Label, pancakes.Ingredients[1].Label, pancakes.Ingredients[2].Label,
		})

		h.mustRun(t, "dish", "create", "--recipe-id", pancakes.Id)
		assert.Contains(t, h.mustRun(t, "dish", "list"), "Pancakes")
	})
}

func TestWatch(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	list, err := h.client.CreateShoppingList(ctx, shopping.ShoppingListInput{Name: strPtr("Watched")})
	require.NoError(t, err)

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, h.client, list.Id, &OutputFormatter{Format: "text", Writer: out})
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "No data.")
	}, 5*time.Second, 10*time.Millisecond)

	_, err = h.client.AddItem(ctx, list.Id, shopping.ItemInput{Label: strPtr("Jam")})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Jam")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func strPtr(value string) *string {
	return &value
}
