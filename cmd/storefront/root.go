package main

import (
	"strconv"

	"github.com/spf13/cobra"

	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the jhumka catalog and manage the cart and wishlist",
		Long: `Terminal client for the jhumka storefront.

State is shared with the API through the configured storage backend
(JHUMKA_STORAGE_BACKEND), so changes made here show up in the browser
session and the other way round.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newProductsCmd(a),
		newProductCmd(a),
		newCollectionsCmd(a),
		newRegionsCmd(a),
		newCartCmd(a),
		newWishlistCmd(a),
		newCheckoutCmd(a),
		newContactCmd(a),
	)
	return root
}

func parseProductID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer").
			WithDetails(map[string]any{"product_id": raw})
	}
	return id, nil
}
