// Package reconcile resolves parsed records' foreign keys against the
// record store: address → property for property batches, and
// permit → address → property for permit batches. Only the property path
// inserts previously-unseen addresses, never duplicated; the lookup
// string is the only address identity prior to persistence. Permits link
// to addresses the property pipeline has already established and stay
// unlinked otherwise.
package reconcile

import (
	"context"
	"fmt"
	"log"

	"github.com/artifex-data/heimr/internal/address"
	"github.com/artifex-data/heimr/internal/parse"
	"github.com/artifex-data/heimr/internal/records"
)

// AddressLookup reads existing address ids by lookup string. This is the
// whole store surface the permit path uses.
type AddressLookup interface {
	AddressesByLookup(ctx context.Context, lookups []string) (map[string]int64, error)
}

// AddressStore adds the insert path the property resolver needs.
// Implementations must make inserts idempotent under unique-constraint
// conflicts on the lookup string: a concurrent duplicate insert falls
// through to the re-lookup rather than failing the batch.
type AddressStore interface {
	AddressLookup
	InsertAddresses(ctx context.Context, rows []records.Address) error
}

// PropertyOwners maps address ids to their owning property ids.
type PropertyOwners interface {
	PropertyIDsByAddress(ctx context.Context, addressIDs []int64) (map[int64]int64, error)
}

// Summary counts resolution outcomes for one batch.
type Summary struct {
	Resolved   int
	Inserted   int
	Unresolved int
}

// ref is one record's address leg: the lookup key plus where to put the
// resolved id.
type ref struct {
	lookup string
	addr   address.Address
	assign func(int64)
}

// ResolveProperties assigns an address id to every parsed property,
// inserting canonical addresses the store has not seen. Property identity
// itself needs no resolution: properties carry their external id.
func ResolveProperties(ctx context.Context, store AddressStore, props []*parse.Property) (Summary, error) {
	refs := make([]ref, 0, len(props))
	for _, p := range props {
		if p.AddressID != nil {
			continue
		}
		p := p
		refs = append(refs, ref{
			lookup: p.Address.LookupString,
			addr:   p.Address,
			assign: func(id int64) { p.AddressID = &id },
		})
	}
	return resolveAddresses(ctx, store, refs)
}

// ResolvePermits assigns address ids to permits, then transitively
// resolves property ids through each address's owning property. The
// address leg is lookup-only: permits never mint address rows, so a
// permit whose lookup string is unknown to the store keeps a null
// address id and a null property id. That is expected, not an error.
func ResolvePermits(ctx context.Context, store AddressLookup, owners PropertyOwners, permits []*parse.Permit) (Summary, error) {
	var sum Summary
	if len(permits) == 0 {
		return sum, nil
	}

	lookups := make([]string, 0, len(permits))
	seenLookup := make(map[string]struct{}, len(permits))
	for _, p := range permits {
		if _, dup := seenLookup[p.Address.LookupString]; dup {
			continue
		}
		seenLookup[p.Address.LookupString] = struct{}{}
		lookups = append(lookups, p.Address.LookupString)
	}

	known, err := store.AddressesByLookup(ctx, lookups)
	if err != nil {
		return sum, fmt.Errorf("resolving permit addresses: %w", err)
	}
	for _, p := range permits {
		if id, ok := known[p.Address.LookupString]; ok {
			p.AddressID = &id
			sum.Resolved++
			continue
		}
		sum.Unresolved++
	}
	if sum.Unresolved > 0 {
		log.Printf("[reconcile] %d permits reference addresses not in the store, left unlinked", sum.Unresolved)
	}

	addressIDs := make([]int64, 0, len(permits))
	seen := make(map[int64]struct{})
	for _, p := range permits {
		if p.AddressID == nil {
			continue
		}
		if _, dup := seen[*p.AddressID]; dup {
			continue
		}
		seen[*p.AddressID] = struct{}{}
		addressIDs = append(addressIDs, *p.AddressID)
	}

	ownerByAddress, err := owners.PropertyIDsByAddress(ctx, addressIDs)
	if err != nil {
		return sum, fmt.Errorf("resolving permit property ids: %w", err)
	}
	for _, p := range permits {
		if p.AddressID == nil {
			continue
		}
		if propID, ok := ownerByAddress[*p.AddressID]; ok {
			id := propID
			p.PropertyID = &id
		}
	}
	return sum, nil
}

// resolveAddresses is the shared address leg:
//
//  1. one query for every distinct lookup string in the batch
//  2. assign matched ids
//  3. materialize the misses, dedupe them by lookup string in memory
//     (records in one batch can share an address), bulk-insert
//  4. re-query by the original lookup set, a read-after-write re-lookup
//     rather than trusting generated keys from the bulk insert
//
// Anything still unresolved after step 4 is logged and left null; it is
// not retried within the run.
func resolveAddresses(ctx context.Context, store AddressStore, refs []ref) (Summary, error) {
	var sum Summary
	if len(refs) == 0 {
		return sum, nil
	}

	lookups := distinctLookups(refs)
	known, err := store.AddressesByLookup(ctx, lookups)
	if err != nil {
		return sum, fmt.Errorf("resolving addresses: %w", err)
	}

	var missing []ref
	for _, r := range refs {
		if id, ok := known[r.lookup]; ok {
			r.assign(id)
			sum.Resolved++
			continue
		}
		missing = append(missing, r)
	}
	if len(missing) == 0 {
		return sum, nil
	}

	newRows := make([]records.Address, 0, len(missing))
	seen := make(map[string]struct{}, len(missing))
	for _, r := range missing {
		if _, dup := seen[r.lookup]; dup {
			continue
		}
		seen[r.lookup] = struct{}{}
		newRows = append(newRows, toRow(r.addr))
	}
	if err := store.InsertAddresses(ctx, newRows); err != nil {
		return sum, fmt.Errorf("inserting new addresses: %w", err)
	}
	sum.Inserted = len(newRows)

	missingLookups := make([]string, 0, len(seen))
	for lookup := range seen {
		missingLookups = append(missingLookups, lookup)
	}
	inserted, err := store.AddressesByLookup(ctx, missingLookups)
	if err != nil {
		return sum, fmt.Errorf("re-querying inserted addresses: %w", err)
	}

	for _, r := range missing {
		id, ok := inserted[r.lookup]
		if !ok {
			log.Printf("[reconcile] failed to resolve address id for %q", r.lookup)
			sum.Unresolved++
			continue
		}
		r.assign(id)
		sum.Resolved++
	}
	return sum, nil
}

func distinctLookups(refs []ref) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, dup := seen[r.lookup]; dup {
			continue
		}
		seen[r.lookup] = struct{}{}
		out = append(out, r.lookup)
	}
	return out
}

func toRow(a address.Address) records.Address {
	return records.Address{
		PropertyID:   a.PropertyID,
		StreetName:   a.StreetName,
		StreetNumber: a.StreetNumber,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		StreetSuffix: a.StreetSuffix,
		StLookupStr:  a.LookupString,
		Unit:         a.Unit,
		Lat:          a.Lat,
		Lon:          a.Lon,
	}
}
