package domain

// Category is a product category.
type Category string

const (
	Electronics Category = "Electronics"
	Accessories Category = "Accessories"
	Audio       Category = "Audio"
	Wearables   Category = "Wearables"
	SmartHome   Category = "Smart Home"
)

// Categories lists every valid category.
var Categories = []Category{Electronics, Accessories, Audio, Wearables, SmartHome}

// Region is a sales region.
type Region string

const (
	North Region = "North"
	South Region = "South"
	East  Region = "East"
	West  Region = "West"
)

// Regions lists every valid region.
var Regions = []Region{North, South, East, West}

// Source column names.
const (
	ColumnDate        = "date"
	ColumnOrderID     = "order_id"
	ColumnProduct     = "product"
	ColumnCategory    = "category"
	ColumnRegion      = "region"
	ColumnQuantity    = "quantity"
	ColumnUnitPrice   = "unit_price"
	ColumnTotalAmount = "total_amount"
)

// RequiredColumns is the full column set of the source file, in canonical order.
var RequiredColumns = []string{
	ColumnDate,
	ColumnOrderID,
	ColumnProduct,
	ColumnCategory,
	ColumnRegion,
	ColumnQuantity,
	ColumnUnitPrice,
	ColumnTotalAmount,
}
