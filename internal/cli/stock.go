package cli

import (
	"github.com/spf13/cobra"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/routes/stock"
)

func NewStockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Track what is in the pantry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			all, err := client.All(cmd.Context(), client.ListParams{}, c.ListStock)
			if err != nil {
				return err
			}
			rows := make([][]string, len(all))
			for i, level := range all {
				unit := level.Unit
				rows[i] = []string{level.Name, formatQuantity(&level.Quantity, &unit)}
			}
			return rootOpts.Formatter(cmd).Table(all, []string{"Product", "Qty"}, rows)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "update <product> <quantity>",
		Short: "Set the stock of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			id, err := productId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			updated, err := c.UpdateStock(cmd.Context(), id, stock.StockInput{Quantity: &quantity})
			if err != nil {
				return err
			}
			unit := updated.Unit
			return rootOpts.Formatter(cmd).Done(updated, "%s: %s", updated.Name, formatQuantity(&updated.Quantity, &unit))
		},
	})
	return cmd
}
