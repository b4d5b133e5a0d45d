package http

import (
	"github.com/go-chi/chi/v5"

	"despacho/frontend/catalog"
	goodsdelivery "despacho/frontend/deliveries/goods"
	itemdelivery "despacho/frontend/deliveries/items"
	deliverynotes "despacho/frontend/deliveries/notes"
	exportspage "despacho/frontend/exports"
)

// RegisterDeliveryRoutes registers the item and goods delivery screens,
// the delivery note PDFs and the supporting JSON endpoints.
func (s *Server) RegisterDeliveryRoutes(r chi.Router) chi.Router {
	r.Get("/deliveries/items", itemdelivery.ListDeliveriesPageQueryHandler(s.DB))
	r.Get("/deliveries/items/new", itemdelivery.NewDeliveryPageQueryHandler(s.DB))
	r.Post("/deliveries/items", itemdelivery.CreateDeliveryCommandHandler(s.DB, s.Audit))
	r.Get("/deliveries/items/{id}/note.pdf", deliverynotes.ItemNoteQueryHandler(s.DB))

	r.Get("/deliveries/goods", goodsdelivery.ListDeliveriesPageQueryHandler(s.DB))
	r.Get("/deliveries/goods/new", goodsdelivery.NewDeliveryPageQueryHandler(s.DB))
	r.Post("/deliveries/goods", goodsdelivery.CreateDeliveryCommandHandler(s.DB, s.Audit))
	r.Get("/deliveries/goods/{id}/note.pdf", deliverynotes.GoodsNoteQueryHandler(s.DB))

	r.Get("/api/requests/{id}/lines", itemdelivery.RequestLinesQueryHandler(s.DB))
	r.Get("/api/articles/search", itemdelivery.SearchArticlesQueryHandler(s.DB))
	return r
}

// RegisterCatalogRoutes registers the article catalog and CSV import.
func (s *Server) RegisterCatalogRoutes(r chi.Router) {
	r.Get("/catalog", catalog.ImportPageQueryHandler(s.DB))
	r.Post("/catalog/import", catalog.ImportCommandHandler(s.DB, s.Audit))
}

// RegisterExportRoutes registers the CSV export endpoints.
func (s *Server) RegisterExportRoutes(r chi.Router) {
	r.Get("/exports/items.csv", exportspage.ItemDeliveriesCSVHandler(s.DB))
	r.Get("/exports/goods.csv", exportspage.GoodsDeliveriesCSVHandler(s.DB))
	r.Get("/exports/movements.csv", exportspage.StockMovementsCSVHandler(s.DB))
}
