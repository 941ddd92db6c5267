package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/routes/products"
)

func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(newProductListCommand(rootOpts))
	cmd.AddCommand(newProductCreateCommand(rootOpts))
	cmd.AddCommand(newProductImportCommand(rootOpts))
	cmd.AddCommand(newProductUpdateCommand(rootOpts))
	return cmd
}

func newProductListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print a list of all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			all, err := client.All(cmd.Context(), client.ListParams{}, c.ListProducts)
			if err != nil {
				return err
			}
			rows := make([][]string, len(all))
			for i, product := range all {
				rows[i] = []string{product.Name, string(product.Unit)}
			}
			return rootOpts.Formatter(cmd).Table(all, []string{"Name", "Unit"}, rows)
		},
	}
}

func newProductCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var name, unit, defaultQuantity string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedUnit, err := parseUnit(unit)
			if err != nil {
				return err
			}
			quantity, err := parseQuantity(defaultQuantity)
			if err != nil {
				return err
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			created, err := c.CreateProduct(cmd.Context(), products.ProductInput{
				Name:            &name,
				Unit:            &parsedUnit,
				DefaultQuantity: &quantity,
			})
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(created, "Created product %s", created.Name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the product")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of the product (unit|gram|liter)")
	cmd.Flags().StringVar(&defaultQuantity, "default-quantity", "", "default quantity of the product")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("unit")
	cmd.MarkFlagRequired("default-quantity")
	return cmd
}

func newProductImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <json>",
		Short: "Import a JSON array of products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var inputs []products.ProductInput
			if err := json.Unmarshal([]byte(args[0]), &inputs); err != nil {
				return WrapExitError(ExitCommandError, "invalid products JSON", err)
			}
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			formatter := rootOpts.Formatter(cmd)
			imported := make([]products.Product, 0, len(inputs))
			for _, input := range inputs {
				formatter.VerboseLog("Importing %s", stringOr(input.Name, "<unnamed>"))
				created, err := c.CreateProduct(cmd.Context(), input)
				if err != nil {
					return err
				}
				imported = append(imported, created)
			}
			return formatter.Done(imported, "Imported %d products", len(imported))
		},
	}
}

func newProductUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var name, unit string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update an existing product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.Client()
			if err != nil {
				return err
			}
			id, err := productId(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			input := products.ProductInput{}
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("unit") {
				parsed, err := parseUnit(unit)
				if err != nil {
					return err
				}
				input.Unit = &parsed
			}
			updated, err := c.UpdateProduct(cmd.Context(), id, input)
			if err != nil {
				return err
			}
			return rootOpts.Formatter(cmd).Done(updated, "Updated product %s", updated.Name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name of the product")
	cmd.Flags().StringVar(&unit, "unit", "", "new unit of the product (unit|gram|liter)")
	return cmd
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
