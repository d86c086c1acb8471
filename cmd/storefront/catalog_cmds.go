package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		search     string
		minPrice   string
		maxPrice   string
		categories []string
		sortBy     string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := catalog.DefaultFilter()
			filter.SearchTerm = search

			var err error
			if filter.MinPrice, err = parsePrice("min-price", minPrice, catalog.DefaultMinPrice); err != nil {
				return err
			}
			if filter.MaxPrice, err = parsePrice("max-price", maxPrice, catalog.DefaultMaxPrice); err != nil {
				return err
			}
			if filter.MinPrice.GreaterThan(filter.MaxPrice) {
				return pkgerrors.New(pkgerrors.CodeValidation, "min-price must not exceed max-price")
			}
			for _, raw := range categories {
				c, err := enums.ParseCategory(raw)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category")
				}
				filter.SelectedCategories = append(filter.SelectedCategories, c.String())
			}
			if filter.Sort, err = enums.ParseSortOption(sortBy); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort option")
			}

			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				products := catalog.ApplyFilters(s.sf.Catalog().Products(), filter)
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), products)
				}
				return renderProducts(cmd.OutOrStdout(), products)
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name search")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "lowest price to include")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price to include")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category to include (gold, pearl, kundan, silver, diamond)")
	cmd.Flags().StringVar(&sortBy, "sort", enums.SortFeatured.String(), "featured, price-asc, price-desc, name-asc or name-desc")
	return cmd
}

func parsePrice(flag, raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative number").
			WithDetails(map[string]any{"flag": flag, "value": raw})
	}
	return v, nil
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product with related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				detail, err := s.sf.ProductDetail(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.jsonOut {
					return writeJSON(out, detail)
				}
				fmt.Fprintf(out, "%s  %s\n", detail.Product.Name, money("", detail.Product.Price))
				if detail.Product.Description != "" {
					fmt.Fprintln(out, detail.Product.Description)
				}
				saved := "no"
				if detail.InWishlist {
					saved = "yes"
				}
				fmt.Fprintf(out, "In cart: %d  In wishlist: %s\n\nYou may also like\n", detail.InCart, saved)
				return renderProducts(out, detail.Related)
			})
		},
	}
}

func newCollectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collections [id]",
		Short: "List collections or show the products in one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					cols := s.sf.Catalog().Collections()
					if a.jsonOut {
						return writeJSON(out, cols)
					}
					tw := table(out)
					fmt.Fprintln(tw, "ID\tNAME")
					for _, c := range cols {
						fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
					}
					return tw.Flush()
				}
				col, products, ok := s.sf.Catalog().Collection(args[0])
				if !ok {
					return pkgerrors.New(pkgerrors.CodeNotFound, "collection not found").
						WithDetails(map[string]any{"collection": args[0]})
				}
				if a.jsonOut {
					return writeJSON(out, map[string]any{"collection": col, "products": products})
				}
				fmt.Fprintln(out, col.Name)
				return renderProducts(out, products)
			})
		},
	}
}

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions [id]",
		Short: "List regions or show the jhumkas of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					regions := s.sf.Catalog().Regions()
					if a.jsonOut {
						return writeJSON(out, regions)
					}
					tw := table(out)
					fmt.Fprintln(tw, "ID\tNAME\tPRODUCTS")
					for _, r := range regions {
						fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.Name, len(r.ProductIDs))
					}
					return tw.Flush()
				}
				region, products, ok := s.sf.Catalog().Region(args[0])
				if !ok {
					return pkgerrors.New(pkgerrors.CodeNotFound, "region not found").
						WithDetails(map[string]any{"region": args[0]})
				}
				if a.jsonOut {
					return writeJSON(out, map[string]any{"region": region, "products": products})
				}
				fmt.Fprintf(out, "%s\n%s\n\n", region.Name, region.Description)
				return renderProducts(out, products)
			})
		},
	}
}
