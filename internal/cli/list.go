package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/livesync"
	"philcali.me/groceries/internal/routes/shopping"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage shopping lists",
		Long: `Manage shopping lists.

Lists are addressed by name. "current" is the list being filled for the next
trip, the only one without a date.`,
	}
	cmd.AddCommand(newListGetCommand(rootOpts))
	cmd.AddCommand(newListCreateCommand(rootOpts))
	cmd.AddCommand(newListItemCommand(rootOpts))
	cmd.AddCommand(newListAddCommand(rootOpts))
	cmd.AddCommand(newListRemoveCommand(rootOpts))
	cmd.AddCommand(newListFinalizeCommand(rootOpts))
	cmd.AddCommand(newListWatchCommand(rootOpts))
	return cmd
}

func itemRows(list shopping.ShoppingList) [][]string {
	rows := make([][]string, len(list.Items))
	for i, item := range list.Items {
		rows[i] = []string{item.Label, formatQuantity(item.Quantity, item.Unit), mark(item.Checked)}
	}
	return rows
}

var itemColumns = []string{"Product", "Qty", "Checked"}

func newListGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			id, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			list, err := c.GetShoppingList(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Table(list, itemColumns, itemRows(list))
		},
	}
}

func newListCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new shopping list",
		Long:  "Create a new shopping list. The previous current list is finalized.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			created, err := c.CreateShoppingList(cmd.Context(), shopping.ShoppingListInput{Name: &name})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(created, "Created shopping list %s", name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the shopping list")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newListItemCommand(rootOpts *RootOptions) *cobra.Command {
	var quantity string
	var noQuantity, checked, noChecked bool
	cmd := &cobra.Command{
		Use:   "item <list> <product>",
		Short: "Create or update a product on a shopping list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := shopping.ItemUpdateInput{}
			if cmd.Flags().Changed("quantity") {
				parsed, err := parseQuantity(quantity)
				if err != nil {
					return err
				}
				input.Quantity = &parsed
			}
			input.ClearQuantity = noQuantity
			if checked || noChecked {
				value := checked
				input.Checked = &value
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			list, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			product, err := productId(cmd.Context(), c, args[1])
			if err != nil {
				return err
			}
			item, err := c.SetItem(cmd.Context(), list, product, input)
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(item, "%s %s", item.Label, formatQuantity(item.Quantity, item.Unit))
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "set the quantity")
	cmd.Flags().BoolVar(&noQuantity, "no-quantity", false, "remove the quantity")
	cmd.Flags().BoolVar(&checked, "checked", false, "mark the product as checked")
	cmd.Flags().BoolVar(&noChecked, "no-checked", false, "mark the product as not checked")
	cmd.MarkFlagsMutuallyExclusive("quantity", "no-quantity")
	cmd.MarkFlagsMutuallyExclusive("checked", "no-checked")
	return cmd
}

func newListAddCommand(rootOpts *RootOptions) *cobra.Command {
	var product, label, unit, quantity string
	cmd := &cobra.Command{
		Use:   "add <list>",
		Short: "Append a product or a free-text item to a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			input := shopping.ItemInput{}
			if cmd.Flags().Changed("quantity") {
				parsed, err := parseQuantity(quantity)
				if err != nil {
					return err
				}
				input.Quantity = &parsed
			}
			if product != "" {
				id, err := productId(cmd.Context(), c, product)
				if err != nil {
					return err
				}
				input.ProductId = &id
			} else {
				input.Label = &label
				if unit != "" {
					parsed, err := parseUnit(unit)
					if err != nil {
						return err
					}
					input.Unit = &parsed
				}
			}
			list, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			item, err := c.AddItem(cmd.Context(), list, input)
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(item, "Added %s at position %d", item.Label, item.Position)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "name of the product")
	cmd.Flags().StringVar(&label, "label", "", "free-text label")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of a free-text item (unit|gram|liter)")
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity, defaults to the product's")
	cmd.MarkFlagsOneRequired("product", "label")
	cmd.MarkFlagsMutuallyExclusive("product", "label")
	cmd.MarkFlagsMutuallyExclusive("product", "unit")
	return cmd
}

func newListRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list> <product-or-item>",
		Short: "Remove an item from a shopping list",
		Long: `Remove an item from a shopping list. The item is matched by product name,
falling back to an item id.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			list, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			ref := args[1]
			if id, err := productId(cmd.Context(), c, ref); err == nil {
				ref = id
			}
			if err := c.RemoveItem(cmd.Context(), list, ref); err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(map[string]string{"removed": ref}, "Removed %s", args[1])
		},
	}
}

func newListFinalizeCommand(rootOpts *RootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "finalize <list>",
		Short: "Date a shopping list, making it historical",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now().UTC()
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --date", err)
				}
				when = parsed
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			id, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			updated, err := c.UpdateShoppingList(cmd.Context(), id, shopping.ShoppingListInput{Date: &when})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(updated, "Finalized %s on %s", args[0], when.Format(time.DateOnly))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date of the trip (YYYY-MM-DD), defaults to today")
	return cmd
}

func newListWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <list>",
		Short: "Print a shopping list every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			id, err := listId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			catalog, err := client.All(cmd.Context(), client.ListParams{}, c.ListProducts)
			if err != nil {
				return err
			}
			return watch(cmd.Context(), c, id, rootOpts.Formatter(cmd), livesync.WithProducts(catalog))
		},
	}
}

func watch(ctx context.Context, source livesync.Source, listId string, formatter *OutputFormatter, options ...livesync.Option) error {
	changes := make(chan shopping.ShoppingList, 1)
	listener := livesync.WithListener(func(snapshot shopping.ShoppingList) {
		select {
		case <-changes:
		default:
		}
		changes <- snapshot
	})
	sync := livesync.New(source, listId, append(options, listener)...)
	sync.Start(ctx)
	defer sync.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-changes:
			formatter.VerboseLog("[%s] %d items", time.Now().Format(time.TimeOnly), len(snapshot.Items))
			if err := formatter.Table(snapshot, itemColumns, itemRows(snapshot)); err != nil {
				return err
			}
			if formatter.Format != "json" {
				fmt.Fprintln(formatter.Writer)
			}
		}
	}
}
