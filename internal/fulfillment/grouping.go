package fulfillment

import "github.com/shopopti/fulfillment-backend/pkg/types"

// UnknownGroupKey collects items that resolution could not assign a supplier.
// The group is carried through (its items stay in the order snapshot) but is
// never dispatched.
const UnknownGroupKey = "unknown"

// SupplierGroup is the per-supplier batch of items placed as one upstream order.
type SupplierGroup struct {
	SupplierID string
	Items      []types.OrderItem
}

// GroupBySupplier buckets items by their resolved supplier, preserving the
// order in which suppliers first appear so dispatch and the denormalized
// primary-supplier fields stay deterministic.
func GroupBySupplier(items []types.OrderItem) []SupplierGroup {
	index := make(map[string]int)
	groups := make([]SupplierGroup, 0)

	for _, item := range items {
		key := UnknownGroupKey
		if item.SupplierID != nil {
			key = item.SupplierID.String()
		}
		at, ok := index[key]
		if !ok {
			at = len(groups)
			index[key] = at
			groups = append(groups, SupplierGroup{SupplierID: key})
		}
		groups[at].Items = append(groups[at].Items, item)
	}
	return groups
}
