package models

// Document is one schema-flexible record held by a resource collection.
// Field values are whatever the JSON decoder produced (string, float64, ...).
type Document map[string]any

// ResourceType describes one document collection served by the generic
// resource endpoints. The product and flash-sale surfaces differ only in
// which fields are required, whether list requests honor query-parameter
// filters, and whether update/delete are exposed, so each difference lives
// here rather than in a near-duplicate handler.
type ResourceType struct {
	Name           string   // singular name used in response messages
	Table          string   // backing table
	RequiredFields []string // create fails without all of these
	OptionalFields []string // accepted on create/update when present
	SupportsFilter bool     // list honors exact-match query filters
	Mutable        bool     // update/delete routes are registered
}

// Fields returns every field the resource accepts, required first.
func (rt ResourceType) Fields() []string {
	return append(append([]string{}, rt.RequiredFields...), rt.OptionalFields...)
}

var (
	Product = ResourceType{
		Name:           "product",
		Table:          "all_products",
		RequiredFields: []string{"imageLink", "title", "category", "price", "description", "rating"},
		SupportsFilter: true,
		Mutable:        true,
	}

	FlashSale = ResourceType{
		Name:           "flashSale",
		Table:          "flash_sale",
		RequiredFields: []string{"imageLink", "title", "category", "price", "description"},
		OptionalFields: []string{"rating"},
	}
)
