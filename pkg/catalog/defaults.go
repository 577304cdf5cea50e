package catalog

import "github.com/shopspring/decimal"

// Filter options shown on the listing page.
var (
	DefaultCategories = []string{"Clothings", "Electronics", "Smartphones", "Home interiors", "Modern tech"}
	DefaultBrands     = []string{"Samsung", "Apple", "Huawei", "Poco", "Lenovo", "Artel Market", "Best factory LLC", "Guanjoi Trading LLC", "Canon", "GoPro", "Sony", "Dell"}
	Conditions        = []string{"Any", "Refurbished", "Brand new", "Old Items"}
	RatingBuckets     = []int{5, 4, 3}
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultProducts() []Product {
	artel := Details{Seller: "Artel Market"}
	return []Product{
		{ID: 1, Name: "T-shirts with multiple colors, for men", Price: price("10.30"), Image: "assets/images/tshirt.jpg", Category: "Clothings", Brand: "Artel Market", Rating: 7.5,
			Details: Details{Size: "medium", Color: "blue", Material: "Plastic", Seller: "Artel Market"}},
		{ID: 2, Name: "Jeans shorts for men blue color", Price: price("10.30"), Image: "assets/images/jeans-shorts.png", Category: "Clothings", Brand: "Best factory LLC", Rating: 7.5,
			Details: Details{Size: "medium", Color: "blue", Material: "Plastic", Seller: "Best factory LLC"}},
		{ID: 3, Name: "Table Lamp", Price: price("170.50"), Image: "assets/images/lamp.jpg", Category: "Home interiors", Brand: "Artel Market", Rating: 7.5,
			Details: Details{Size: "medium", Color: "blue", Material: "Plastic", Seller: "Artel Market"}},
		{ID: 4, Name: "Samsung Galaxy Pad 5", Price: price("699.50"), Image: "assets/images/galaxypad.jpg", Category: "Electronics", Brand: "Samsung", Rating: 7.5, Details: artel},
		{ID: 5, Name: "Apple iPhone 13", Price: price("599.50"), Image: "assets/images/iphone13.jpg", Category: "Smartphones", Brand: "Apple", Rating: 7.5, Details: artel},
		{ID: 6, Name: "Apple Watch Series 6 - Black", Price: price("299.50"), Image: "assets/images/applewatch.jpg", Category: "Smartphones", Brand: "Apple", Rating: 7.5, Details: artel},
		{ID: 7, Name: "Dell Laptop - XPS 13", Price: price("99.50"), Image: "assets/images/laptop.png", Category: "Electronics", Brand: "Dell", Rating: 7.5, Details: artel},
		{ID: 8, Name: "Canon Camera EOS 2000", Price: price("998.00"), Image: "assets/images/canon2000.jpg", Category: "Electronics", Brand: "Canon", Rating: 7.5, Details: artel},
		{ID: 9, Name: "GoPro HERO6", Price: price("998.00"), Image: "assets/images/gopro.jpg", Category: "Electronics", Brand: "GoPro", Rating: 7.5, Details: artel},
		{ID: 10, Name: "Samsung Galaxy S21", Price: price("998.00"), Image: "assets/images/galaxys21.jpg", Category: "Smartphones", Brand: "Samsung", Rating: 7.5, Details: artel},
		{ID: 11, Name: "Headphones Sony WH-1000XM4", Price: price("348.00"), Image: "assets/images/sonyheadphones.jpg", Category: "Electronics", Brand: "Sony", Rating: 7.5, Details: artel},
		{ID: 12, Name: "Mens Long Sleeve T-shirt", Price: price("100.00"), Image: "assets/images/tshirtlong.jpg", Category: "Clothings", Brand: "Guanjoi Trading LLC", Rating: 9.3,
			Details: Details{Size: "medium", Material: "Plastic", Seller: "Guanjoi Trading LLC"}},
	}
}

// Default returns the shared storefront catalog.
func Default() *StaticCatalog {
	c, err := NewStaticCatalog(defaultProducts(), DefaultCategories, DefaultBrands)
	if err != nil {
		panic("catalog: invalid default catalog: " + err.Error())
	}
	return c
}
