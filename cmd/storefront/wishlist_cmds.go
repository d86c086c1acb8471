package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/jhumka-storefront/internal/wishlist"
)

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and change saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.wishlistAction(cmd, func(_ context.Context, s *session) (wishlist.Event, error) {
				items := s.sf.Wishlist().Items()
				return wishlist.Event{Items: items, Count: len(items)}, nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Save a product, or unsave it if already saved",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
					saved, err := s.sf.ToggleWishlist(ctx, id)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if a.jsonOut {
						return writeJSON(out, map[string]any{"saved": saved, "count": s.sf.Wishlist().Count()})
					}
					if saved {
						_, err = fmt.Fprintf(out, "Saved product %d (%d in wishlist)\n", id, s.sf.Wishlist().Count())
					} else {
						_, err = fmt.Fprintf(out, "Removed product %d (%d in wishlist)\n", id, s.sf.Wishlist().Count())
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "rm <product-id>",
			Short: "Remove a saved product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.wishlistAction(cmd, func(ctx context.Context, s *session) (wishlist.Event, error) {
					return s.sf.Wishlist().Remove(ctx, id), nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every saved product",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.wishlistAction(cmd, func(ctx context.Context, s *session) (wishlist.Event, error) {
					return s.sf.Wishlist().Clear(ctx), nil
				})
			},
		},
		&cobra.Command{
			Use:   "move <product-id>",
			Short: "Move a saved product into the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
					snap, ev, err := s.sf.MoveToCart(ctx, id)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if a.jsonOut {
						return writeJSON(out, map[string]any{"cart": snap, "wishlist": ev})
					}
					return renderCart(out, snap)
				})
			},
		},
		newWishlistWatchCmd(a),
	)
	return cmd
}

// newWishlistWatchCmd prints the wishlist every time it changes, including
// changes written by the API or another terminal through a file store.
func newWishlistWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the wishlist whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				events, cancel := s.sf.Wishlist().Subscribe()
				defer cancel()

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					return s.sf.Watch(gctx)
				})
				g.Go(func() error {
					out := cmd.OutOrStdout()
					for {
						select {
						case <-gctx.Done():
							return nil
						case ev, ok := <-events:
							if !ok {
								return nil
							}
							var err error
							if a.jsonOut {
								err = writeJSON(out, ev)
							} else {
								err = renderWishlist(out, ev)
							}
							if err != nil {
								return err
							}
						}
					}
				})
				return g.Wait()
			})
		},
	}
}

func (a *app) wishlistAction(cmd *cobra.Command, fn func(ctx context.Context, s *session) (wishlist.Event, error)) error {
	return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
		ev, err := fn(ctx, s)
		if err != nil {
			return err
		}
		if a.jsonOut {
			return writeJSON(cmd.OutOrStdout(), ev)
		}
		return renderWishlist(cmd.OutOrStdout(), ev)
	})
}
