package lineform

import (
	"context"
	"fmt"
)

// Mode is the entry mode of the whole form. All rows share it.
type Mode int

const (
	ModeManual Mode = iota
	ModeLinked
)

// RequestInfo is the header of a linked request.
type RequestInfo struct {
	ID                int64
	Number            string
	Requester         string
	Department        string
	Reason            string
	SourceWarehouseID *int64
}

// RequestLine is one pending line of a linked request. Pending and Stock
// are snapshots taken when the lines were fetched.
type RequestLine struct {
	RequestLineID int64
	ArticleID     int64
	Code          string
	Name          string
	Unit          string
	Pending       Quantity
	Stock         Quantity
}

// RequestDetail is a fetched request header plus its pending lines.
type RequestDetail struct {
	Info  RequestInfo
	Lines []RequestLine
}

// RequestLineSource fetches a request's header and pending lines.
type RequestLineSource interface {
	RequestLines(ctx context.Context, requestID int64) (RequestDetail, error)
}

// Effects describes the presentation changes a mode transition demands.
// The caller applies them; the component holds no view handles.
type Effects struct {
	ShowRequestInfo      bool
	HideRequestInfo      bool
	RowsReplaced         bool
	EmptyState           bool
	ManualAddEnabled     bool
	SuggestedWarehouseID *int64
}

// SelectRequest switches the form to linked mode: it fetches the
// request's pending lines and replaces the registry with one linked row
// per line, quantity defaulted to the pending amount.
//
// On a fetch error nothing changes: mode, registry and header stay as
// they were. The transition counts as entered only on success.
//
// Callers that fire overlapping selections get last-completion-wins:
// a slow fetch finishing after a newer one still applies its result.
// Known race, kept as observed behavior.
func (c *Component) SelectRequest(ctx context.Context, requestID int64) (Effects, error) {
	if !c.profile.SupportsLinking {
		return Effects{}, fmt.Errorf("profile %s does not support request linking", c.profile.Name)
	}
	if c.source == nil {
		return Effects{}, fmt.Errorf("no request line source configured")
	}

	detail, err := c.source.RequestLines(ctx, requestID)
	if err != nil {
		return Effects{}, fmt.Errorf("load request %d: %w", requestID, err)
	}

	c.mode = ModeLinked
	info := detail.Info
	c.request = &info

	c.reg.Clear()
	for _, line := range detail.Lines {
		c.reg.Add(c.linkedRow(line))
	}

	return Effects{
		ShowRequestInfo:      true,
		RowsReplaced:         true,
		EmptyState:           c.reg.Empty(),
		ManualAddEnabled:     false,
		SuggestedWarehouseID: info.SourceWarehouseID,
	}, nil
}

// ClearRequest switches back to manual mode: the header panel hides, the
// registry empties and manual adds are enabled again.
func (c *Component) ClearRequest() Effects {
	c.mode = ModeManual
	c.request = nil
	c.reg.Clear()
	return Effects{
		HideRequestInfo:  true,
		RowsReplaced:     true,
		EmptyState:       true,
		ManualAddEnabled: true,
	}
}

func (c *Component) linkedRow(line RequestLine) *Row {
	qty := line.Pending
	pending := line.Pending
	stock := line.Stock
	return &Row{
		Mode:          RowLinked,
		CatalogID:     line.ArticleID,
		Quantity:      &qty,
		RequestLineID: line.RequestLineID,
		Pending:       &pending,
		StockSnapshot: &stock,
	}
}
