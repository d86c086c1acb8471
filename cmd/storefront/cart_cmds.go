package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/jhumka-storefront/internal/cart"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the shopping cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cartAction(cmd, func(_ context.Context, s *session) (cart.Snapshot, error) {
				return s.sf.Cart().Snapshot(), nil
			})
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return a.cartAction(cmd, func(ctx context.Context, s *session) (cart.Snapshot, error) {
				return s.sf.AddToCart(ctx, id, quantity)
			})
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 0, "units to add, 1 to 10 (default 1)")

	cmd.AddCommand(
		add,
		a.cartLineCmd("inc <product-id>", "Increase a line's quantity by one", func(ctx context.Context, c *cart.Cart, id int) cart.Snapshot {
			return c.IncrementItem(ctx, id)
		}),
		a.cartLineCmd("dec <product-id>", "Decrease a line's quantity by one", func(ctx context.Context, c *cart.Cart, id int) cart.Snapshot {
			return c.DecrementItem(ctx, id)
		}),
		a.cartLineCmd("rm <product-id>", "Remove a line from the cart", func(ctx context.Context, c *cart.Cart, id int) cart.Snapshot {
			return c.RemoveItem(ctx, id)
		}),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.cartAction(cmd, func(ctx context.Context, s *session) (cart.Snapshot, error) {
					return s.sf.Cart().ClearCart(ctx), nil
				})
			},
		},
	)
	return cmd
}

func (a *app) cartLineCmd(use, short string, apply func(ctx context.Context, c *cart.Cart, id int) cart.Snapshot) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return a.cartAction(cmd, func(ctx context.Context, s *session) (cart.Snapshot, error) {
				return apply(ctx, s.sf.Cart(), id), nil
			})
		},
	}
}

func (a *app) cartAction(cmd *cobra.Command, fn func(ctx context.Context, s *session) (cart.Snapshot, error)) error {
	return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
		snap, err := fn(ctx, s)
		if err != nil {
			return err
		}
		if a.jsonOut {
			return writeJSON(cmd.OutOrStdout(), snap)
		}
		return renderCart(cmd.OutOrStdout(), snap)
	})
}
