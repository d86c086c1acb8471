package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

type collectionResponse struct {
	Collection catalog.Collection `json:"collection"`
	Products   []catalog.Product  `json:"products"`
}

type regionResponse struct {
	Region   catalog.Region    `json:"region"`
	Products []catalog.Product `json:"products"`
}

func CollectionsList(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.Catalog().Collections())
	}
}

func CollectionDetail(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "collectionId")
		col, products, ok := sf.Catalog().Collection(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found"))
			return
		}
		responses.WriteSuccess(w, collectionResponse{Collection: col, Products: products})
	}
}

func RegionsList(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.Catalog().Regions())
	}
}

func RegionDetail(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "regionId")
		region, products, ok := sf.Catalog().Region(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "region not found"))
			return
		}
		responses.WriteSuccess(w, regionResponse{Region: region, Products: products})
	}
}
