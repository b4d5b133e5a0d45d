package goods

import "despacho/lineform"

// CreateInput is the decoded goods-delivery form.
type CreateInput struct {
	Reason       string
	Notes        string
	DeliveredTo  string
	DispatchedBy string
	Lines        []lineform.GoodsLine
}

type AssetOption struct {
	ID   int64
	Code string
	Name string
}

type NewPageData struct {
	Assets  []AssetOption
	Message string
}

type DeliveryRow struct {
	ID          int64  `bun:"id"`
	Number      string `bun:"number"`
	DeliveredTo string `bun:"delivered_to"`
	Reason      string `bun:"reason"`
	CreatedAt   string `bun:"created_at"`
	LineCount   int64  `bun:"line_count"`
}

type ListPageData struct {
	Deliveries []DeliveryRow
	Message    string
}
