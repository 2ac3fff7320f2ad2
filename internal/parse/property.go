package parse

import (
	"strings"

	"github.com/artifex-data/heimr/internal/address"
	"github.com/artifex-data/heimr/internal/rawdoc"
)

// ParseProperty transforms one raw property detail document. The document
// nests its payload deep under the page state; a missing details block or
// slug fails the whole document with a ParseError. Embedded listing and
// tax histories are parsed recursively.
func ParseProperty(doc map[string]any, dict address.SuffixDict) (*Property, Summary, error) {
	var sum Summary

	details, ok := rawdoc.Dig(doc, "props", "pageProps", "initialReduxState", "propertyDetails").Map()
	if !ok {
		return nil, sum, missing("property", "propertyDetails")
	}

	slug, ok := rawdoc.Dig(doc, "query", "slug").FirstString()
	if !ok {
		slug, ok = rawdoc.Dig(doc, "query", "detailSlug").FirstString()
	}
	if !ok || slug == "" {
		return nil, sum, missing("property", "slug")
	}
	realtorID := strings.ReplaceAll(slug, "-", "")

	propertyID, ok := rawdoc.Dig(details, "property_id").Int()
	if !ok {
		return nil, sum, missing("property", "property_id")
	}

	location, ok := rawdoc.Dig(details, "location").Map()
	if !ok {
		return nil, sum, missing("property", "location")
	}
	addrMap, ok := rawdoc.Dig(location, "address").Map()
	if !ok {
		return nil, sum, missing("property", "location.address")
	}
	addr, err := address.FromRaw(addrMap, dict)
	if err != nil {
		return nil, sum, &Error{Entity: "property", Field: "location.address", Err: err}
	}
	addr.PropertyID = &propertyID

	p := &Property{
		PropertyID: propertyID,
		RealtorID:  realtorID,
		Address:    addr,
	}
	p.URL, _ = rawdoc.Dig(details, "href").String()
	p.StreetView, _ = rawdoc.Dig(location, "street_view_url").String()

	p.Image, _ = rawdoc.Dig(details, "primary_photo", "href").String()
	if p.Image == "" {
		if photos, ok := rawdoc.Dig(details, "photos").Slice(); ok && len(photos) > 0 {
			if first, ok := rawdoc.Of(photos[0]).Map(); ok {
				p.Image, _ = rawdoc.Dig(first, "href").String()
			}
		}
	}

	if description, ok := rawdoc.Dig(details, "description").Map(); ok {
		if baths, ok := rawdoc.Dig(description, "baths").Float(); ok {
			p.Baths = &baths
		}
		p.Beds = intPtr(rawdoc.Dig(description, "beds"))
		p.Sqft = intPtr(rawdoc.Dig(description, "sqft"))
		p.LotSqft = intPtr(rawdoc.Dig(description, "lot_sqft"))
	}

	if history, ok := rawdoc.Dig(details, "property_history").Slice(); ok {
		listings, listingSum := ParseListings(history, propertyID, realtorID)
		p.Listings = listings
		sum.add(listingSum)
	}

	if taxHistory, ok := rawdoc.Dig(details, "tax_history").Slice(); ok {
		taxes, err := ParseTaxes(taxHistory, propertyID, realtorID)
		if err != nil {
			return nil, sum, err
		}
		p.Taxes = taxes
	}

	sum.Parsed++
	return p, sum, nil
}

func intPtr(v rawdoc.Value) *int {
	n, ok := v.Int()
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}
