// Package export writes booking history to XLSX for offline review.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/np-mndp/book-my-seat/internal/booking"
	"github.com/np-mndp/book-my-seat/internal/models"
)

const sheetName = "Bookings"

var headerColumns = []string{
	"Booking ID", "Restaurant", "Address", "Guests",
	"Load In", "Load Out", "Status", "Special Occasion", "Note",
}

// WriteBookings renders the bookings to an XLSX file at path: a bold
// header, one row per booking, and a summary footer derived from the
// classifier.
func WriteBookings(path string, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	if err := writeHeader(f); err != nil {
		return err
	}

	row := 2
	for _, b := range bookings {
		occasion := ""
		if b.IsSpecialOccasion {
			occasion = b.EventSpecial
		}
		values := []interface{}{
			b.ID, b.Restaurant.Title, b.Restaurant.Address, b.Guests,
			b.LoadIn.Format("2006-01-02 15:04"), b.LoadOut.Format("2006-01-02 15:04"),
			string(b.Status), occasion, b.Note,
		}
		if err := writeRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	summary := booking.Summarize(bookings)
	footer := []interface{}{
		"", fmt.Sprintf("%d bookings", len(bookings)), "", summary.TotalGuests,
	}
	if summary.FirstTime != nil {
		footer = append(footer, summary.FirstTime.Format("2006-01-02 15:04"))
	}
	if err := writeRow(f, row+1, footer); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	if err := writeRowValues(f, 1, toAny(headerColumns)); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, 1)
	end, _ := excelize.CoordinatesToCellName(len(headerColumns), 1)
	return f.SetCellStyle(sheetName, start, end, style)
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	return writeRowValues(f, row, values)
}

func writeRowValues(f *excelize.File, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
