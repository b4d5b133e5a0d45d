package items

import "despacho/lineform"

// CreateInput is everything the item-delivery form posts, already
// decoded and sanitized.
type CreateInput struct {
	Reason            string
	Notes             string
	DeliveredTo       string
	DispatchedBy      string
	RequestID         *int64
	SourceWarehouseID *int64
	Lines             []lineform.ItemLine
}

type RequestOption struct {
	ID        int64
	Number    string
	Requester string
}

type WarehouseOption struct {
	ID   int64
	Name string
}

type NewPageData struct {
	Catalog    []lineform.CatalogEntry
	Requests   []RequestOption
	Warehouses []WarehouseOption
	Message    string
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

// Wire shapes for the request-lines endpoint. Keys match what the form
// script consumes.
type requestHeaderJSON struct {
	Number            string `json:"numero"`
	Requester         string `json:"solicitante"`
	Department        string `json:"departamento"`
	Reason            string `json:"motivo"`
	SourceWarehouseID *int64 `json:"bodega_origen_id"`
}

type requestLineJSON struct {
	RequestLineID int64             `json:"detalle_solicitud_id"`
	ArticleID     int64             `json:"articulo_id"`
	Code          string            `json:"articulo_codigo"`
	Name          string            `json:"articulo_nombre"`
	Category      string            `json:"categoria"`
	Unit          string            `json:"unidad_medida"`
	Stock         lineform.Quantity `json:"stock_actual"`
	Approved      lineform.Quantity `json:"cantidad_aprobada"`
	Dispatched    lineform.Quantity `json:"cantidad_despachada"`
	Pending       lineform.Quantity `json:"cantidad_pendiente"`
}

type requestLinesResponse struct {
	Success bool               `json:"success"`
	Request *requestHeaderJSON `json:"solicitud,omitempty"`
	Lines   []requestLineJSON  `json:"articulos,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type articleSearchJSON struct {
	ID    int64             `json:"id"`
	Code  string            `json:"codigo"`
	Name  string            `json:"nombre"`
	Unit  string            `json:"unidad_medida"`
	Stock lineform.Quantity `json:"stock_actual"`
}
