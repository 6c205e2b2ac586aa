package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BookingReceiptPDF renders a booking confirmation document and returns the
// raw bytes (no filesystem needed).
func BookingReceiptPDF(b *Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(21, 39, 61)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Viajes Global", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 180, 255)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Travel Package Booking Confirmation", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(21, 39, 61)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Booking ───────────────────────────────────────────────
	sectionHeader("Booking")
	row("Booking number", fmt.Sprintf("%d", b.BookingID))
	row("Status", b.Status)
	row("Booked on", b.BookingDate.Format("02 Jan 2006, 15:04 UTC"))
	row("Name", b.Name)
	row("Email", b.Email)
	if b.Phone != "" {
		row("Phone", b.Phone)
	}
	pdf.Ln(4)

	pkg := b.Package

	// ── Flight ────────────────────────────────────────────────
	if pkg != nil && pkg.Flight != nil {
		f := pkg.Flight
		sectionHeader("Flight")
		row("Airline", f.Airline)
		row("Route", fmt.Sprintf("%s - %s", f.Origin, f.Destination))
		row("Departure", fmtDateReadable(f.DepartureDate))
		row("Arrival", fmtDateReadable(f.ArrivalDate))
		row("Price", fmt.Sprintf("$%.2f", f.Price))
		pdf.Ln(4)
	}

	// ── Hotel ─────────────────────────────────────────────────
	if pkg != nil && pkg.Hotel != nil {
		h := pkg.Hotel
		sectionHeader("Hotel")
		row("Hotel", h.Name)
		row("Address", h.Address)
		row("City", fmt.Sprintf("%s, %s", h.City, h.Country))
		row("Rating", fmt.Sprintf("%.1f / 5.0", h.Rating))
		row("Price", fmt.Sprintf("$%.2f/night x %d nights = $%.2f",
			h.PricePerNight, HotelNights, h.PricePerNight*HotelNights))
		pdf.Ln(4)
	}

	// ── Activity ──────────────────────────────────────────────
	if pkg != nil && pkg.Activity != nil {
		a := pkg.Activity
		sectionHeader("Activity")
		row("Activity", a.Name)
		if a.Location != "" {
			row("Location", a.Location)
		}
		row("Category", a.Category)
		row("Price", fmt.Sprintf("$%.2f", a.Price))
		pdf.Ln(4)
	}

	// ── Total ─────────────────────────────────────────────────
	sectionHeader("Total")
	pdf.SetFillColor(120, 180, 255)
	pdf.SetTextColor(21, 39, 61)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "PACKAGE TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.2f", b.PackageTotal()), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Viajes Global · Keep this confirmation for check-in · Payment status is shown in your cart",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// fmtDateReadable renders both bare dates and full timestamps.
func fmtDateReadable(iso string) string {
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return t.Format("02 Jan 2006, 15:04")
	}
	if t, err := time.Parse("2006-01-02", iso); err == nil {
		return t.Format("02 Jan 2006 (Mon)")
	}
	return iso
}
