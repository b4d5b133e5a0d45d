package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Warehouse is a physical storage location articles are dispatched from.
type Warehouse struct {
	bun.BaseModel `bun:"table:warehouses,alias:w"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Code      string    `bun:"code,unique,notnull"`
	Name      string    `bun:"name,notnull"`
	Active    bool      `bun:"active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Article is a consumable inventory item tracked by quantity.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID           int64           `bun:"id,pk,autoincrement"`
	Code         string          `bun:"code,unique,notnull"`
	Name         string          `bun:"name,notnull"`
	Category     string          `bun:"category"`
	Unit         string          `bun:"unit,notnull,default:'unidad'"`
	CurrentStock decimal.Decimal `bun:"current_stock,notnull"`
	MinimumStock decimal.Decimal `bun:"minimum_stock,notnull"`
	Active       bool            `bun:"active,notnull,default:true"`
	CreatedAt    time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// Asset is a durable good (equipo). Assets are delivered by unit and are
// not quantity-tracked against warehouse stock.
type Asset struct {
	bun.BaseModel `bun:"table:assets,alias:ast"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Code         string    `bun:"code,unique,notnull"`
	Name         string    `bun:"name,notnull"`
	AssetType    string    `bun:"asset_type"`
	SerialNumber string    `bun:"serial_number"`
	Active       bool      `bun:"active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Request is an approved item request (solicitud) deliveries can be
// linked against.
type Request struct {
	bun.BaseModel `bun:"table:requests,alias:rq"`

	ID                int64     `bun:"id,pk,autoincrement"`
	Number            string    `bun:"number,unique,notnull"`
	Requester         string    `bun:"requester,notnull"`
	Department        string    `bun:"department"`
	Reason            string    `bun:"reason"`
	Status            string    `bun:"status,notnull,default:'approved'"`
	SourceWarehouseID *int64    `bun:"source_warehouse_id"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Request statuses.
const (
	RequestStatusApproved  = "approved"
	RequestStatusCompleted = "completed"
)

// RequestLine is one approved article line on a request. The pending
// amount is approved_qty - dispatched_qty.
type RequestLine struct {
	bun.BaseModel `bun:"table:request_lines,alias:rl"`

	ID            int64           `bun:"id,pk,autoincrement"`
	RequestID     int64           `bun:"request_id,notnull"`
	ArticleID     int64           `bun:"article_id,notnull"`
	Article       Article         `bun:"rel:belongs-to,join:article_id=id"`
	ApprovedQty   decimal.Decimal `bun:"approved_qty,notnull"`
	DispatchedQty decimal.Decimal `bun:"dispatched_qty,notnull"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// ItemDelivery is a dispatch of consumable articles (entrega de articulos).
type ItemDelivery struct {
	bun.BaseModel `bun:"table:item_deliveries,alias:itd"`

	ID                int64     `bun:"id,pk,autoincrement"`
	Number            string    `bun:"number,unique,notnull"`
	Reason            string    `bun:"reason,notnull"`
	Notes             string    `bun:"notes"`
	DeliveredTo       string    `bun:"delivered_to,notnull"`
	RequestID         *int64    `bun:"request_id"`
	SourceWarehouseID *int64    `bun:"source_warehouse_id"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ItemDeliveryLine is one article line on an item delivery.
type ItemDeliveryLine struct {
	bun.BaseModel `bun:"table:item_delivery_lines,alias:idl"`

	ID            int64           `bun:"id,pk,autoincrement"`
	DeliveryID    int64           `bun:"delivery_id,notnull"`
	ArticleID     int64           `bun:"article_id,notnull"`
	Qty           decimal.Decimal `bun:"qty,notnull"`
	Lot           string          `bun:"lot"`
	RequestLineID *int64          `bun:"request_line_id"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// GoodsDelivery is a dispatch of durable assets (entrega de bienes).
type GoodsDelivery struct {
	bun.BaseModel `bun:"table:goods_deliveries,alias:gd"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Number      string    `bun:"number,unique,notnull"`
	Reason      string    `bun:"reason,notnull"`
	Notes       string    `bun:"notes"`
	DeliveredTo string    `bun:"delivered_to,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// GoodsDeliveryLine is one asset line on a goods delivery.
type GoodsDeliveryLine struct {
	bun.BaseModel `bun:"table:goods_delivery_lines,alias:gdl"`

	ID           int64     `bun:"id,pk,autoincrement"`
	DeliveryID   int64     `bun:"delivery_id,notnull"`
	AssetID      int64     `bun:"asset_id,notnull"`
	Qty          int64     `bun:"qty,notnull"`
	SerialNumber string    `bun:"serial_number"`
	Condition    string    `bun:"condition"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// StockMovement records every stock mutation with before/after levels.
type StockMovement struct {
	bun.BaseModel `bun:"table:stock_movements,alias:sm"`

	ID          int64           `bun:"id,pk,autoincrement"`
	ArticleID   int64           `bun:"article_id,notnull"`
	Operation   string          `bun:"operation,notnull"`
	Qty         decimal.Decimal `bun:"qty,notnull"`
	StockBefore decimal.Decimal `bun:"stock_before,notnull"`
	StockAfter  decimal.Decimal `bun:"stock_after,notnull"`
	Reason      string          `bun:"reason"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// Movement operations.
const (
	MovementOut = "SALIDA"
	MovementIn  = "ENTRADA"
)

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
