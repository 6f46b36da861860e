package models

import "time"

// Product is one catalog row. The table names match the catalogs produced by
// the loader so an existing iphones_catalog.db opens unchanged.
type Product struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"           json:"id"`
	ProductID     string     `gorm:"uniqueIndex;not null"               json:"product_id"`
	Model         string     `gorm:"not null"                           json:"model"`
	Price         int64      `gorm:"not null;default:0"                 json:"price"`
	Currency      string     `gorm:"default:RUB"                        json:"currency"`
	OldPrice      *int64     `                                          json:"old_price,omitempty"`
	CurrentColor  string     `                                          json:"current_color"`
	CurrentMemory string     `                                          json:"current_memory"`
	CurrentSim    string     `                                          json:"current_sim"`
	ImageURL      string     `                                          json:"image_url"`
	ProductURL    string     `                                          json:"product_url"`
	ParsedAt      *time.Time `                                          json:"parsed_at,omitempty"`
	CreatedAt     time.Time  `                                          json:"created_at"`
	Category      string     `gorm:"index"                              json:"category"`
	IsFeatured    bool       `gorm:"default:false"                      json:"is_featured"`
	DisplayOrder  int        `gorm:"default:0"                          json:"display_order"`
}

func (Product) TableName() string { return "iphones_catalog" }

type ProductColor struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID string `gorm:"index;not null"           json:"product_id"`
	ColorName string `                                json:"color_name"`
}

func (ProductColor) TableName() string { return "iphone_catalog_colors" }

type ProductMemory struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  string `gorm:"index;not null"           json:"product_id"`
	MemorySize string `                                json:"memory_size"`
}

func (ProductMemory) TableName() string { return "iphone_catalog_memory" }

type OrderStatus string

const (
	OrderStatusNew     OrderStatus = "new"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

// Order keeps the comma-joined ProductID column of the original orders table
// so older databases accept inserts; Items are authoritative.
type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"       json:"id"`
	ProductID  string      `gorm:"not null"                       json:"product_id"`
	Price      int64       `gorm:"not null"                       json:"price"`
	Currency   string      `gorm:"not null;default:RUB"           json:"currency"`
	Status     OrderStatus `gorm:"not null;default:new"           json:"status"`
	ChargeCode *string     `gorm:"index"                          json:"charge_code,omitempty"`
	CreatedAt  time.Time   `gorm:"default:CURRENT_TIMESTAMP"      json:"created_at"`
	UpdatedAt  time.Time   `                                      json:"updated_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"             json:"items"`
}

// OrderItem snapshots name and price at checkout time.
type OrderItem struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"           json:"id"`
	OrderID   uint   `gorm:"index;not null"                     json:"order_id"`
	ProductID string `gorm:"not null"                           json:"product_id"`
	Model     string `gorm:"not null"                           json:"model"`
	Quantity  int    `gorm:"not null;default:1;check:quantity>0" json:"quantity"`
	UnitPrice int64  `gorm:"not null"                           json:"unit_price"`
	LineTotal int64  `gorm:"not null"                           json:"line_total"`
}
