package repo

// ProductFilter narrows a product listing. Nil bounds are not applied.
type ProductFilter struct {
	Name        string
	MinPrice    *float64
	MaxPrice    *float64
	MinQuantity *int
	MaxQuantity *int
}

// InternalKeyField is the store-internal primary key of a product document.
const InternalKeyField = "_id"

// SortSpec orders a listing ascending by a single document field.
type SortSpec struct {
	Field string
}

// DefaultSort orders products by name.
var DefaultSort = SortSpec{Field: "name"}

// SortBy maps a client supplied sort key onto a document field. The key "id"
// refers to the internal key, which follows insertion order rather than the
// domain id.
func SortBy(key string) SortSpec {
	switch key {
	case "":
		return DefaultSort
	case "id":
		return SortSpec{Field: InternalKeyField}
	default:
		return SortSpec{Field: key}
	}
}
