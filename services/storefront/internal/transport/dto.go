package transport

import "github.com/Skotchmaster/tonstore/services/storefront/internal/models"

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

type ProductFilter struct {
	Category string `query:"category" json:"category"`
	Search   string `query:"search"   json:"search"`
	Sort     string `query:"sort"     json:"sort"`
}

type ProductView struct {
	models.Product
	FormattedPrice string   `json:"formatted_price"`
	ShortModel     string   `json:"short_model"`
	Colors         []string `json:"colors_list"`
	Memory         []string `json:"memory_list"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type CartLine struct {
	Product        ProductView `json:"product"`
	Quantity       int         `json:"quantity"`
	LineTotal      int64       `json:"total_price"`
	FormattedTotal string      `json:"formatted_total"`
}

type CartView struct {
	Lines          []CartLine `json:"items"`
	Total          int64      `json:"total_price"`
	FormattedTotal string     `json:"formatted_total"`
	Count          int        `json:"count"`
}

type OrderItemView struct {
	models.OrderItem
	FormattedUnitPrice string `json:"formatted_unit_price"`
	FormattedLineTotal string `json:"formatted_line_total"`
}

type OrderView struct {
	Order          models.Order    `json:"order"`
	FormattedPrice string          `json:"formatted_price"`
	Items          []OrderItemView `json:"items"`
}

type SearchResult struct {
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Items []ProductView `json:"products"`
}
