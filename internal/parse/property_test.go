package parse

import (
	"errors"
	"testing"

	"github.com/artifex-data/heimr/internal/address"
)

var parseDict = address.SuffixDict{
	"dr":    "drive",
	"drive": "drive",
	"drv":   "drive",
	"rd":    "road",
	"road":  "road",
}

func propertyDoc() map[string]any {
	return map[string]any{
		"query": map[string]any{
			"slug": "M4543-990551",
		},
		"props": map[string]any{
			"pageProps": map[string]any{
				"initialReduxState": map[string]any{
					"propertyDetails": map[string]any{
						"property_id": float64(4543990551),
						"href":        "https://example.com/6-pond-view-dr",
						"primary_photo": map[string]any{
							"href": "https://example.com/primary.jpg",
						},
						"location": map[string]any{
							"street_view_url": "https://example.com/sv.jpg",
							"address": map[string]any{
								"state":         "Massachusetts",
								"city":          "Sandwich",
								"street_name":   "Pond View Drv",
								"street_number": "6",
								"street_suffix": "dr",
								"postal_code":   "02563",
								"coordinates": map[string]any{
									"lat": float64(41.7),
									"lon": float64(-70.5),
								},
							},
						},
						"description": map[string]any{
							"baths":    float64(2.5),
							"beds":     float64(3),
							"sqft":     float64(1850),
							"lot_sqft": float64(9100),
						},
						"property_history": []any{
							historyItem(float64(77), "2022-06-01", "2022-06-01", "for_sale", 450000),
						},
						"tax_history": []any{
							map[string]any{
								"year": float64(2021),
								"tax":  float64(4800),
								"assessment": map[string]any{
									"building": float64(210000),
									"land":     float64(140000),
									"total":    float64(350000),
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestParseProperty(t *testing.T) {
	p, sum, err := ParseProperty(propertyDoc(), parseDict)
	if err != nil {
		t.Fatal(err)
	}

	if p.PropertyID != 4543990551 {
		t.Errorf("property_id = %d", p.PropertyID)
	}
	if p.RealtorID != "M4543990551" {
		t.Errorf("realtor_id = %q (slug hyphens must be removed)", p.RealtorID)
	}
	if p.Address.LookupString != "6 pond view drive, 02563" {
		t.Errorf("lookup = %q", p.Address.LookupString)
	}
	if p.Address.PropertyID == nil || *p.Address.PropertyID != p.PropertyID {
		t.Error("address should back-reference the property id")
	}
	if p.Address.Lat == nil || *p.Address.Lat != 41.7 {
		t.Errorf("lat = %v", p.Address.Lat)
	}
	if p.Baths == nil || *p.Baths != 2.5 || p.Beds == nil || *p.Beds != 3 {
		t.Errorf("description fields: baths=%v beds=%v", p.Baths, p.Beds)
	}
	if p.Image != "https://example.com/primary.jpg" {
		t.Errorf("image = %q", p.Image)
	}
	if len(p.Listings) != 1 || p.Listings[0].ListingID != 77 {
		t.Fatalf("embedded history should parse into listings, got %+v", p.Listings)
	}
	if len(p.Taxes) != 1 || p.Taxes[0].Year != 2021 {
		t.Fatalf("embedded tax history should parse, got %+v", p.Taxes)
	}
	if sum.Parsed != 2 { // one property + one listing
		t.Errorf("summary parsed = %d", sum.Parsed)
	}
}

func TestParsePropertyImageFallsBackToPhotoList(t *testing.T) {
	doc := propertyDoc()
	details := doc["props"].(map[string]any)["pageProps"].(map[string]any)["initialReduxState"].(map[string]any)["propertyDetails"].(map[string]any)
	delete(details, "primary_photo")
	details["photos"] = []any{
		map[string]any{"href": "https://example.com/first.jpg"},
		map[string]any{"href": "https://example.com/second.jpg"},
	}

	p, _, err := ParseProperty(doc, parseDict)
	if err != nil {
		t.Fatal(err)
	}
	if p.Image != "https://example.com/first.jpg" {
		t.Errorf("image = %q", p.Image)
	}
}

func TestParsePropertyMissingDetails(t *testing.T) {
	doc := map[string]any{"props": map[string]any{}}
	_, _, err := ParseProperty(doc, parseDict)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Field != "propertyDetails" {
		t.Errorf("error should identify the missing field, got %v", err)
	}
}

func TestParsePropertySlugFromList(t *testing.T) {
	doc := propertyDoc()
	query := doc["query"].(map[string]any)
	delete(query, "slug")
	query["detailSlug"] = []any{"M99-88"}

	p, _, err := ParseProperty(doc, parseDict)
	if err != nil {
		t.Fatal(err)
	}
	if p.RealtorID != "M9988" {
		t.Errorf("realtor_id = %q", p.RealtorID)
	}
}

func TestParsePropertyMissingSlug(t *testing.T) {
	doc := propertyDoc()
	delete(doc, "query")
	if _, _, err := ParseProperty(doc, parseDict); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}
