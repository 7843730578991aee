package document

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	contentW   = 180.0
)

// RenderPDF lays doc out on A4 pages using the core Helvetica font. Text is
// translated to cp1252 so "£" survives; characters outside it are dropped.
func RenderPDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(brand, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(0, 5, tr(doc.Footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, "Page "+strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(29, 78, 216)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, lineHeight, tr(doc.Route+"  |  Issued "+doc.Issued), "", 1, "L", false, 0, "")
	if doc.Reference != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(31, 41, 55)
		pdf.CellFormat(0, 9, "Booking reference: "+tr(doc.Reference), "", 1, "L", false, 0, "")
	}
	pdf.SetDrawColor(29, 78, 216)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageMargin, pdf.GetY()+2, pageMargin+contentW, pdf.GetY()+2)
	pdf.Ln(6)

	pdf.SetTextColor(31, 41, 55)
	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(0.2)

	sectionTitle(pdf, "Flights")
	for _, f := range doc.Flights {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, lineHeight, tr(f.Label+": "+f.Origin+" to "+f.Destination), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		carrier := f.Airline
		if f.Flight != "" {
			carrier += "  " + f.Flight
		}
		pdf.CellFormat(0, lineHeight, tr(carrier), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr("Departs "+f.Departure+"   Arrives "+f.Arrival), "", 1, "L", false, 0, "")
		stops := f.Duration + "  " + f.Stops
		if f.Layover != "" {
			stops += " (" + f.Layover + ")"
		}
		pdf.CellFormat(0, lineHeight, tr(stops), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	if len(doc.Passengers) > 0 {
		sectionTitle(pdf, "Passengers")
		widths := []float64{10, 70, 30, 40, 30}
		tableHeader(pdf, widths, []string{"#", "Name", "Type", "Date of birth", "Gender"}, nil)
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range doc.Passengers {
			cells := []string{strconv.Itoa(p.No), p.Name, p.Type, p.DateOfBirth, p.Gender}
			for i, c := range cells {
				pdf.CellFormat(widths[i], lineHeight+1, tr(c), "B", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	sectionTitle(pdf, "Fare")
	widths := []float64{100, 40, 40}
	align := []string{"L", "R", "R"}
	tableHeader(pdf, widths, []string{"Passenger", "Per person", "Subtotal"}, align)
	pdf.SetFont("Helvetica", "", 10)
	for _, f := range doc.Fares {
		for i, c := range []string{f.Label, f.Unit, f.Subtotal} {
			pdf.CellFormat(widths[i], lineHeight+1, tr(c), "B", 0, align[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1], lineHeight+2, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(widths[2], lineHeight+2, tr(doc.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	if len(doc.Contact) > 0 {
		sectionTitle(pdf, "Contact")
		for _, f := range doc.Contact {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(35, lineHeight, tr(f.Label), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, lineHeight, tr(f.Value), "", 1, "L", false, 0, "")
		}
	}

	return pdf.Output(w)
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, titles, align []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(243, 244, 246)
	for i, t := range titles {
		a := "L"
		if align != nil {
			a = align[i]
		}
		pdf.CellFormat(widths[i], lineHeight+1, t, "B", 0, a, true, 0, "")
	}
	pdf.Ln(-1)
}
