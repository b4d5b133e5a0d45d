package lineform

import (
	"encoding/json"
	"fmt"
)

// ItemLine is the wire form of one item-delivery row, as written into
// the hidden detalles field.
type ItemLine struct {
	ArticleID     int64    `json:"articulo_id"`
	Quantity      Quantity `json:"cantidad"`
	Lot           *string  `json:"lote"`
	RequestLineID *int64   `json:"detalle_solicitud_id,omitempty"`
}

// GoodsLine is the wire form of one goods-delivery row.
type GoodsLine struct {
	AssetID      int64    `json:"equipo_id"`
	Quantity     Quantity `json:"cantidad"`
	SerialNumber *string  `json:"numero_serie"`
	Condition    *string  `json:"estado_fisico"`
}

// Conditions accepted on goods lines.
const (
	ConditionExcellent = "EXCELLENTE"
	ConditionGood      = "BUENO"
	ConditionFair      = "REGULAR"
	ConditionPoor      = "MALO"
)

// ValidCondition reports whether s is one of the accepted condition values.
func ValidCondition(s string) bool {
	switch s {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Payload flattens the registry, in ascending row order, into the JSON
// array destined for the hidden detalles field. Call Validate first;
// Payload assumes every row carries a selection and a quantity.
func (c *Component) Payload() (string, error) {
	rows := c.reg.Rows()
	if c.profile.IntegerQuantity {
		lines := make([]GoodsLine, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, GoodsLine{
				AssetID:      row.CatalogID,
				Quantity:     *row.Quantity,
				SerialNumber: optionalText(row.AuxText),
				Condition:    optionalText(row.Condition),
			})
		}
		return EncodeGoodsLines(lines)
	}

	lines := make([]ItemLine, 0, len(rows))
	for _, row := range rows {
		line := ItemLine{
			ArticleID: row.CatalogID,
			Quantity:  *row.Quantity,
			Lot:       optionalText(row.AuxText),
		}
		if row.Mode == RowLinked {
			id := row.RequestLineID
			line.RequestLineID = &id
		}
		lines = append(lines, line)
	}
	return EncodeItemLines(lines)
}

func EncodeItemLines(lines []ItemLine) (string, error) {
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode item lines: %w", err)
	}
	return string(b), nil
}

func DecodeItemLines(payload string) ([]ItemLine, error) {
	var lines []ItemLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode item lines: %w", err)
	}
	return lines, nil
}

func EncodeGoodsLines(lines []GoodsLine) (string, error) {
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode goods lines: %w", err)
	}
	return string(b), nil
}

func DecodeGoodsLines(payload string) ([]GoodsLine, error) {
	var lines []GoodsLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode goods lines: %w", err)
	}
	return lines, nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
