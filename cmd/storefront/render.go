package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/wishlist"
)

const defaultCurrency = "₹"

var printer = message.NewPrinter(language.English)

func money(symbol string, p catalog.Price) string {
	if symbol == "" {
		symbol = defaultCurrency
	}
	return symbol + printer.Sprint(number.Decimal(p.InexactFloat64(), number.Scale(2)))
}

func priceOf(d decimal.Decimal) catalog.Price {
	return catalog.Price{Decimal: d}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderProducts(w io.Writer, products []catalog.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products match the current filters.")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, money("", p.Price))
	}
	return tw.Flush()
}

func renderCart(w io.Writer, snap cart.Snapshot) error {
	if len(snap.Items) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tSUBTOTAL")
	for _, item := range snap.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", item.ID, item.Name, item.Quantity,
			money("", priceOf(item.Subtotal())))
	}
	fmt.Fprintf(tw, "\tTotal (%d items)\t\t%s\n", snap.ItemCount, money("", snap.Total))
	return tw.Flush()
}

func renderWishlist(w io.Writer, ev wishlist.Event) error {
	if ev.Count == 0 {
		_, err := fmt.Fprintln(w, "Your wishlist is empty.")
		return err
	}
	if err := renderProducts(w, ev.Items); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d saved\n", ev.Count)
	return err
}
