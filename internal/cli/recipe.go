package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/recipes"
)

func NewRecipeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage recipes",
	}
	cmd.AddCommand(newRecipeListCommand(rootOpts))
	cmd.AddCommand(newRecipeCreateCommand(rootOpts))
	cmd.AddCommand(newRecipeIngredientCommand(rootOpts))
	cmd.AddCommand(newRecipeImportCommand(rootOpts))
	return cmd
}

func newRecipeListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print a list of all recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			all, err := client.All(cmd.Context(), client.ListParams{}, c.ListRecipes)
			if err != nil {
				return err
			}
			rows := make([][]string, len(all))
			for i, recipe := range all {
				rows[i] = []string{recipe.Id, recipe.Name}
			}
			return rootOpts.Formatter(cmd).Table(all, []string{"ID", "Name"}, rows)
		},
	}
}

func newRecipeCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			created, err := c.CreateRecipe(cmd.Context(), recipes.RecipeInput{Name: &name, Description: &description})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(created, "Created recipe %s (%s)", created.Name, created.Id)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the recipe")
	cmd.Flags().StringVar(&description, "description", "", "description of the recipe")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("description")
	return cmd
}

func newRecipeIngredientCommand(rootOpts *RootOptions) *cobra.Command {
	var quantity string
	cmd := &cobra.Command{
		Use:   "ingredient <recipe> <product>",
		Short: "Add an ingredient to a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseQuantity(quantity)
			if err != nil {
				return err
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			recipe, err := recipeId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			product, err := productId(cmd.Context(), c, args[1])
			if err != nil {
				return err
			}
			updated, err := c.AddIngredient(cmd.Context(), recipe, recipes.IngredientInput{
				ProductId: &product,
				Quantity:  &parsed,
			})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(updated, "%s now has %d ingredients", updated.Name, len(updated.Ingredients))
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity of the ingredient")
	cmd.MarkFlagRequired("quantity")
	return cmd
}

type recipeFile struct {
	Name        string             `yaml:"name"`
	Time        string             `yaml:"time"`
	Tags        string             `yaml:"tags"`
	Link        string             `yaml:"link"`
	Ingredients []ingredientRecord `yaml:"ingredients"`
}

type ingredientRecord struct {
	Label    string  `yaml:"label"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
}

var frontMatterFence = []byte("---")

// parseFrontMatter splits a markdown document into its YAML header and body.
func parseFrontMatter(contents []byte) (recipeFile, string, error) {
	var header recipeFile
	contents = bytes.ReplaceAll(contents, []byte("\r\n"), []byte("\n"))
	lines := bytes.SplitAfter(contents, []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), frontMatterFence) {
		return header, "", fmt.Errorf("missing front matter")
	}
	for i := 1; i < len(lines); i++ {
		if !bytes.Equal(bytes.TrimSpace(lines[i]), frontMatterFence) {
			continue
		}
		if err := yaml.Unmarshal(bytes.Join(lines[1:i], nil), &header); err != nil {
			return header, "", fmt.Errorf("invalid front matter: %w", err)
		}
		body := bytes.TrimSpace(bytes.Join(lines[i+1:], nil))
		return header, string(body), nil
	}
	return header, "", fmt.Errorf("unterminated front matter")
}

// matchProduct finds a product by singular or plural name, ignoring case.
func matchProduct(catalog []products.Product, label string) (products.Product, bool) {
	fold := cases.Fold()
	wanted := fold.String(label)
	for _, product := range catalog {
		if fold.String(product.Name) == wanted {
			return product, true
		}
		if product.NamePlural != nil && fold.String(*product.NamePlural) == wanted {
			return product, true
		}
	}
	return products.Product{}, false
}

func ingredientInput(catalog []products.Product, record ingredientRecord) (recipes.IngredientInput, error) {
	quantity := decimal.NewFromFloat(record.Quantity)
	input := recipes.IngredientInput{Quantity: &quantity}
	if product, ok := matchProduct(catalog, record.Label); ok {
		input.ProductId = &product.Id
		return input, nil
	}
	label := record.Label
	input.Label = &label
	if record.Unit != "" {
		unit, err := data.ParseUnit(record.Unit)
		if err != nil {
			return input, err
		}
		input.Unit = &unit
	}
	return input, nil
}

func importRecipe(ctx context.Context, c *client.Client, header recipeFile, body string, formatter *OutputFormatter) (recipes.Recipe, error) {
	catalog, err := client.All(ctx, client.ListParams{}, c.ListProducts)
	if err != nil {
		return recipes.Recipe{}, err
	}
	recipe, err := c.CreateRecipe(ctx, recipes.RecipeInput{Name: &header.Name, Description: &body})
	if err != nil {
		return recipe, err
	}
	for _, record := range header.Ingredients {
		input, err := ingredientInput(catalog, record)
		if err != nil {
			return recipe, WrapExitError(ExitCommandError, fmt.Sprintf("ingredient %q", record.Label), err)
		}
		formatter.VerboseLog("Adding %s", record.Label)
		if recipe, err = c.AddIngredient(ctx, recipe.Id, input); err != nil {
			return recipe, err
		}
	}
	return recipe, nil
}

func newRecipeImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import a recipe from a markdown file with YAML front matter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "cannot read recipe", err)
			}
			header, body, err := parseFrontMatter(contents)
			if err != nil {
				return WrapExitError(ExitCommandError, args[0], err)
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			formatter := rootOpts.Formatter(cmd)
			recipe, err := importRecipe(cmd.Context(), c, header, body, formatter)
			if err != nil {
				return err
			}
			return formatter.Done(recipe, "Imported %s with %d ingredients", recipe.Name, len(recipe.Ingredients))
		},
	}
}
