package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/api/validators"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

// CatalogPath is where unknown product lookups are sent.
const CatalogPath = "/api/v1/products"

type productListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Filters  appliedFilters    `json:"filters"`
}

type appliedFilters struct {
	Search     string        `json:"search"`
	MinPrice   catalog.Price `json:"min_price"`
	MaxPrice   catalog.Price `json:"max_price"`
	Categories []string      `json:"categories"`
	Sort       string        `json:"sort"`
}

// ProductsList filters and sorts the catalog from query parameters.
func ProductsList(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sf == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		filter, err := parseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := catalog.ApplyFilters(sf.Catalog().Products(), filter)
		categories := filter.SelectedCategories
		if categories == nil {
			categories = []string{}
		}
		responses.WriteSuccess(w, productListResponse{
			Products: products,
			Count:    len(products),
			Filters: appliedFilters{
				Search:     filter.SearchTerm,
				MinPrice:   catalog.Price{Decimal: filter.MinPrice},
				MaxPrice:   catalog.Price{Decimal: filter.MaxPrice},
				Categories: categories,
				Sort:       filter.Sort.String(),
			},
		})
	}
}

func parseFilter(r *http.Request) (catalog.FilterState, error) {
	filter := catalog.DefaultFilter()
	filter.SearchTerm = strings.TrimSpace(r.URL.Query().Get("search"))

	minPrice, err := validators.ParseQueryDecimal(r, "min_price", catalog.DefaultMinPrice)
	if err != nil {
		return filter, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price", catalog.DefaultMaxPrice)
	if err != nil {
		return filter, err
	}
	if minPrice.GreaterThan(maxPrice) {
		return filter, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not exceed max_price").
			WithDetails(map[string]any{"min_price": minPrice.String(), "max_price": maxPrice.String()})
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice

	for _, raw := range validators.ParseQueryList(r, "category") {
		cat, err := enums.ParseCategory(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category").
				WithDetails(map[string]any{"category": raw})
		}
		filter.SelectedCategories = append(filter.SelectedCategories, cat.String())
	}

	sortOption, err := enums.ParseSortOption(r.URL.Query().Get("sort"))
	if err != nil {
		return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort option").
			WithDetails(map[string]any{"sort": r.URL.Query().Get("sort")})
	}
	filter.Sort = sortOption
	return filter, nil
}

// ProductDetail returns a product with related products. Unknown ids are
// redirected to the catalog listing.
func ProductDetail(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sf == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			redirectToCatalog(w, r, logg)
			return
		}
		detail, err := sf.ProductDetail(id)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			redirectToCatalog(w, r, logg)
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func redirectToCatalog(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	if logg != nil {
		logg.Info(logg.WithField(r.Context(), "requested_path", r.URL.Path), "product.unknown_redirect")
	}
	http.Redirect(w, r, CatalogPath, http.StatusSeeOther)
}

func Categories(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"categories":   sf.Catalog().Categories(),
			"sort_options": enums.SortOptions(),
			"price_range": map[string]catalog.Price{
				"min": {Decimal: catalog.DefaultMinPrice},
				"max": {Decimal: catalog.DefaultMaxPrice},
			},
		})
	}
}
