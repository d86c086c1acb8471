package enums

import "testing"

func TestParseSortOption(t *testing.T) {
	cases := map[string]SortOption{
		"":               SortFeatured,
		"featured":       SortFeatured,
		"price-asc":      SortPriceAsc,
		"PRICE-DESC":     SortPriceDesc,
		"price-low-high": SortPriceAsc,
		"price-high-low": SortPriceDesc,
		"name-a-z":       SortNameAsc,
		" name-z-a ":     SortNameDesc,
	}
	for raw, want := range cases {
		got, err := ParseSortOption(raw)
		if err != nil {
			t.Fatalf("ParseSortOption(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseSortOption(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseSortOption("newest"); err == nil {
		t.Fatalf("expected error for unknown sort option")
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory(" Kundan ")
	if err != nil || got != CategoryKundan {
		t.Fatalf("expected kundan, got %q err=%v", got, err)
	}
	if got.Label() != "Kundan" {
		t.Fatalf("unexpected label %q", got.Label())
	}
	if _, err := ParseCategory("platinum"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if len(Categories()) != 5 {
		t.Fatalf("expected five categories")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"cod", " COD ", ""} {
		got, err := ParsePaymentMethod(raw)
		if err != nil || got != PaymentMethodCOD {
			t.Fatalf("%q: got %q err=%v", raw, got, err)
		}
	}
	if _, err := ParsePaymentMethod("card"); err == nil {
		t.Fatalf("expected card to be rejected")
	}
	if PaymentMethodCOD.Label() != "Cash on Delivery" || PaymentMethod("upi").Label() != "upi" {
		t.Fatalf("unexpected labels")
	}
}
