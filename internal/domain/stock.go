package domain

// Variant is the catalog projection needed at order time: price and
// stock for validation, the rest for the line-item snapshot.
type Variant struct {
	ID          string
	ProductID   string
	ShopID      string
	Name        string
	ProductName string
	ImageURL    string
	SKU         string
	Price       float64
	Stock       int
}

// StockUpdate is one line of a batched stock mutation.
type StockUpdate struct {
	VariantID string
	Quantity  int
}
