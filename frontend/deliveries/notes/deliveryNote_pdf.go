package notes

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// NoteData is everything printed on a delivery note.
type NoteData struct {
	Number      string
	Title       string
	DeliveredTo string
	Reason      string
	Notes       string
	CreatedAt   time.Time
	Lines       []NoteLine
}

// NoteLine is one printed line of a note.
type NoteLine struct {
	Code   string
	Name   string
	Qty    string
	Unit   string
	Detail string // lot or serial/condition
}

func renderDeliveryNotePDF(data NoteData, printedAt time.Time) ([]byte, error) {
	if strings.TrimSpace(data.Number) == "" {
		return nil, fmt.Errorf("delivery number is required")
	}

	barcodePNG, err := renderCode128PNG(data.Number, 1200, 220)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.Title, false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	margin := 14.0
	contentW := pageW - 2*margin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, data.Number, "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "note-barcode-" + data.Number
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	imgW := 110.0
	imgH := 22.0
	pdf.ImageOptions(imageName, (pageW-imgW)/2, 30, imgW, imgH, false, opt, 0, "")
	pdf.SetY(30 + imgH + 6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Entregado a: "+data.DeliveredTo, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Motivo: "+data.Reason, "", 1, "L", false, 0, "")
	if strings.TrimSpace(data.Notes) != "" {
		pdf.CellFormat(0, 6, "Observaciones: "+data.Notes, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Fecha: "+data.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Impreso: "+printedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	codeW := contentW * 0.18
	nameW := contentW * 0.40
	qtyW := contentW * 0.12
	unitW := contentW * 0.12
	detailW := contentW - codeW - nameW - qtyW - unitW

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(margin)
	pdf.CellFormat(codeW, 7, "Código", "1", 0, "L", false, 0, "")
	pdf.CellFormat(nameW, 7, "Descripción", "1", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 7, "Cantidad", "1", 0, "R", false, 0, "")
	pdf.CellFormat(unitW, 7, "Unidad", "1", 0, "L", false, 0, "")
	pdf.CellFormat(detailW, 7, "Detalle", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range data.Lines {
		name := line.Name
		nameFont := fitFontSizeForWidth(pdf, "Helvetica", "", 10, 7, name, nameW-2)
		pdf.SetX(margin)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(codeW, 7, line.Code, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", nameFont)
		pdf.CellFormat(nameW, 7, name, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(qtyW, 7, line.Qty, "1", 0, "R", false, 0, "")
		pdf.CellFormat(unitW, 7, line.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(detailW, 7, line.Detail, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(16)
	sigW := contentW / 2
	pdf.SetX(margin)
	pdf.CellFormat(sigW, 6, strings.Repeat("_", 30), "", 0, "C", false, 0, "")
	pdf.CellFormat(sigW, 6, strings.Repeat("_", 30), "", 1, "C", false, 0, "")
	pdf.SetX(margin)
	pdf.CellFormat(sigW, 6, "Entrega", "", 0, "C", false, 0, "")
	pdf.CellFormat(sigW, 6, "Recibe", "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
