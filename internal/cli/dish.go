package cli

import (
	"time"

	"github.com/spf13/cobra"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/routes/dishes"
)

func NewDishCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dish",
		Short: "Record cooked recipes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			all, err := client.All(cmd.Context(), client.ListParams{}, c.ListDishes)
			if err != nil {
				return err
			}
			rows := make([][]string, len(all))
			for i, dish := range all {
				rows[i] = []string{dish.Id, dish.Name, dish.Date.Format(time.DateOnly)}
			}
			return rootOpts.Formatter(cmd).Table(all, []string{"ID", "Name", "Date"}, rows)
		},
	})

	var recipeId string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a new dish (an instance of a recipe)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			dish, err := c.CreateDish(cmd.Context(), dishes.DishInput{RecipeId: &recipeId})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(dish, "Cooked %s (%s)", dish.Name, dish.Id)
		},
	}
	create.Flags().StringVar(&recipeId, "recipe-id", "", "identifier of the recipe")
	create.MarkFlagRequired("recipe-id")
	cmd.AddCommand(create)
	return cmd
}
