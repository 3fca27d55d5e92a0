// Package export renders booking reports as Excel workbooks. Reports are
// built from the same service calls the interactive views use, so an
// exported file always reflects server truth.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fixly/internal/lifecycle"
	"fixly/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type providerBookingSource interface {
	ProviderBookings(ctx context.Context) (*models.ProviderBookings, error)
}

type customerBookingSource interface {
	Categorized(ctx context.Context) (lifecycle.Buckets, error)
}

type Exporter struct {
	exportsPath string
	logger      *zerolog.Logger
}

func NewExporter(exportsPath string, logger *zerolog.Logger) *Exporter {
	return &Exporter{exportsPath: exportsPath, logger: logger}
}

var bookingHeaders = []string{
	"ID", "Customer", "Provider", "Category", "Date", "Time", "Status", "Notes",
}

// ProviderReport writes the provider's booking buckets into one sheet per
// bucket and returns the file path.
func (e *Exporter) ProviderReport(ctx context.Context, source providerBookingSource) (string, error) {
	if err := os.MkdirAll(e.exportsPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	buckets, err := source.ProviderBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting provider bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name     string
		bookings []models.Booking
	}{
		{"Pending", buckets.Pending},
		{"Accepted", buckets.Accepted},
		{"Completed", buckets.Completed},
		{"Cancelled", buckets.Cancelled},
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return "", fmt.Errorf("error creating sheet: %v", err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		e.writeBookingSheet(f, sheet.name, sheet.bookings)
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("provider_bookings_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.exportsPath, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("provider report created")
	return filePath, nil
}

// CustomerReport writes the customer's categorized bookings.
func (e *Exporter) CustomerReport(ctx context.Context, source customerBookingSource) (string, error) {
	if err := os.MkdirAll(e.exportsPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	buckets, err := source.Categorized(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name     string
		bookings []models.Booking
	}{
		{"Active", buckets.Active},
		{"Completed", buckets.Completed},
		{"Cancelled", buckets.Cancelled},
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return "", fmt.Errorf("error creating sheet: %v", err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		e.writeBookingSheet(f, sheet.name, sheet.bookings)
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("my_bookings_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.exportsPath, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("bookings report created")
	return filePath, nil
}

func (e *Exporter) writeBookingSheet(f *excelize.File, sheetName string, bookings []models.Booking) {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		notes := booking.Notes
		if booking.CompletionNotes != "" {
			notes = booking.CompletionNotes
		}

		values := []interface{}{
			booking.ID,
			booking.CustomerName,
			booking.ProviderName,
			booking.ProviderCategory,
			booking.BookingDate.String(),
			booking.BookingTime,
			booking.Status,
			notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}

		if styleID, err := statusStyle(f, booking.Status); err == nil {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheetName, first, last, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "D", 20)
	_ = f.SetColWidth(sheetName, "E", "G", 14)
	_ = f.SetColWidth(sheetName, "H", "H", 40)
}

// statusStyle colors a row by lifecycle state: yellow while pending,
// green when confirmed or completed, red when cancelled or rejected.
func statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch lifecycle.Parse(status) {
	case lifecycle.StatePending:
		color = "#FFEB9C"
	case lifecycle.StateAccepted, lifecycle.StateCompleted:
		color = "#C6EFCE"
	case lifecycle.StateCancelled, lifecycle.StateRejected:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
}
