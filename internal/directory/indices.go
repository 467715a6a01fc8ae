package directory

// Indices are the three lookup tables the resolver consults, in its
// priority order: channel code, normalized name, raw id.
type Indices struct {
	ByID             map[string]Store
	ByNormalizedName map[string]Store
	ByChannelCode    map[string]Store
}

// BuildIndices derives the lookup tables from the store directory.
//
// channelTable maps POS channel codes to the expected store display name;
// a channel entry only lands in ByChannelCode when a store with that
// normalized name actually exists, so a misconfigured entry degrades to
// the lower-priority rules instead of matching a phantom store.
func BuildIndices(stores []Store, channelTable map[string]string) Indices {
	idx := Indices{
		ByID:             make(map[string]Store, len(stores)),
		ByNormalizedName: make(map[string]Store, len(stores)),
		ByChannelCode:    make(map[string]Store, len(channelTable)),
	}

	for _, store := range stores {
		if store.ID != "" {
			idx.ByID[store.ID] = store
		}
		if normalized := NormalizeName(store.Name); normalized != "" {
			idx.ByNormalizedName[normalized] = store
		}
	}

	for code, name := range channelTable {
		if store, ok := idx.ByNormalizedName[NormalizeName(name)]; ok {
			idx.ByChannelCode[code] = store
		}
	}

	return idx
}
