package model

type Category struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:255;uniqueIndex;not null"`

	Suppliers []Supplier `gorm:"many2many:supplier_categories"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:255;not null;uniqueIndex:ux_products_name_category"`
	CategoryID uint64 `gorm:"column:category_id;not null;uniqueIndex:ux_products_name_category"`

	Category Category
}

func (Product) TableName() string {
	return "products"
}

// ProductOffer is a supplier's sellable listing of a product. The
// whole offer set of a supplier is replaced on every price import.
type ProductOffer struct {
	ID         uint64   `gorm:"primaryKey;autoIncrement"`
	SupplierID uint64   `gorm:"column:supplier_id;not null;uniqueIndex:ux_offers_supplier_external"`
	ProductID  uint64   `gorm:"column:product_id;index;not null"`
	ExternalID string   `gorm:"column:external_id;size:64;not null;uniqueIndex:ux_offers_supplier_external"`
	Model      string   `gorm:"size:255"`
	Name       string   `gorm:"size:255;not null"`
	Price      float64  `gorm:"type:decimal(10,2);not null"`
	PriceRRC   *float64 `gorm:"column:price_rrc;type:decimal(10,2)"`
	Quantity   uint     `gorm:"not null"`

	Product    Product
	Supplier   Supplier
	Parameters []OfferParameter `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

func (ProductOffer) TableName() string {
	return "product_offers"
}

type OfferParameter struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	OfferID uint64 `gorm:"column:offer_id;not null;uniqueIndex:ux_offer_parameters_offer_name"`
	Name    string `gorm:"size:255;not null;uniqueIndex:ux_offer_parameters_offer_name"`
	Value   string `gorm:"size:255;not null"`
}

func (OfferParameter) TableName() string {
	return "offer_parameters"
}
