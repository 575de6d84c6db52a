// Package itemset implements the Item/Itemset/Attribute data model: the
// canonical conjunction-of-literals key used to address nodes in the
// search trie.
package itemset

import (
	"fmt"
	"sort"
)

// Attribute is a 0-based column index into the dataset. NoAttribute marks
// "no attribute has been added yet" (e.g. the root of the search, or the
// sentinel "last added" value passed in to the first call of Recurse).
type Attribute int

// NoAttribute is the sentinel meaning "none added yet".
const NoAttribute Attribute = -1

// Polarity selects which side of a boolean split an Item tests.
type Polarity uint8

const (
	// Negated selects the attr=0 branch.
	Negated Polarity = 0
	// Present selects the attr=1 branch.
	Present Polarity = 1
)

// Item is an (attribute, polarity) literal.
type Item struct {
	Attr Attribute
	Pol  Polarity
}

// NewItem builds an Item, panicking if attr is NoAttribute (an Item must
// always name a real attribute; NoAttribute is only ever used as a
// "last added" sentinel, never as part of an Itemset).
func NewItem(attr Attribute, pol Polarity) Item {
	if attr == NoAttribute {
		panic("itemset: NewItem called with NoAttribute")
	}
	return Item{Attr: attr, Pol: pol}
}

// Attribute returns the item's attribute.
func (i Item) Attribute() Attribute { return i.Attr }

// Polarity returns the item's polarity.
func (i Item) Polarity() Polarity { return i.Pol }

// Encode packs the item into a single non-negative int (attr<<1 | polarity),
// the classic dl8.5 bit-packing, usable as a map key or for compact logging.
func (i Item) Encode() int {
	return int(i.Attr)<<1 | int(i.Pol)
}

// DecodeItem is the inverse of Item.Encode.
func DecodeItem(code int) Item {
	return Item{Attr: Attribute(code >> 1), Pol: Polarity(code & 1)}
}

func (i Item) String() string {
	if i.Pol == Present {
		return fmt.Sprintf("a%d", i.Attr)
	}
	return fmt.Sprintf("!a%d", i.Attr)
}

// Itemset is an ordered, canonical conjunction of items: sorted by
// attribute, each attribute appearing at most once. The empty Itemset is
// the root of the search.
type Itemset []Item

// Canonical builds a canonical Itemset from items, which may arrive in any
// order. It returns an error if the same attribute appears twice
// (regardless of polarity), since that would be a contradictory itemset.
func Canonical(items []Item) (Itemset, error) {
	out := make(Itemset, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].Attr < out[j].Attr })
	for i := 1; i < len(out); i++ {
		if out[i].Attr == out[i-1].Attr {
			return nil, fmt.Errorf("itemset: attribute %d appears more than once", out[i].Attr)
		}
	}
	return out, nil
}

// WithItem returns a new canonical Itemset containing s's items plus item,
// preserving attribute order. It is the constructor used by Recurse to
// build a child's itemset from its parent plus the newly-intersected item.
func (s Itemset) WithItem(item Item) (Itemset, error) {
	out := make(Itemset, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, item)
	return Canonical(out)
}

// Equal reports whether two canonical itemsets contain the same items.
func (s Itemset) Equal(o Itemset) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Itemset) String() string {
	if len(s) == 0 {
		return "{}"
	}
	out := "{"
	for i, item := range s {
		if i > 0 {
			out += ","
		}
		out += item.String()
	}
	return out + "}"
}
