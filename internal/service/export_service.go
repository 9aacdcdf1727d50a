package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/pkg/export"
	appErrors "github.com/campuspulse/campus-events-api/pkg/errors"
)

// ExportFormat identifies a supported schedule export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

var exportColumns = []string{"Date", "Start", "End", "Title", "Types", "Organizer", "Location", "Capacity"}

// ExportService renders event schedules into downloadable documents.
type ExportService struct {
	events *EventService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
}

// NewExportService constructs an export service over the event service.
func NewExportService(events *EventService) *ExportService {
	return &ExportService{
		events: events,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
	}
}

// Export renders the filtered schedule. Returns the document bytes, its
// content type and a suggested filename.
func (s *ExportService) Export(ctx context.Context, req dto.ListEventsRequest, format ExportFormat) ([]byte, string, string, error) {
	views, _, err := s.events.List(ctx, req)
	if err != nil {
		return nil, "", "", err
	}

	table := scheduleTable(views)
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return data, "text/csv", "events.csv", nil
	case FormatPDF:
		data, err := s.pdf.Render(table, "Campus Events Schedule")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return data, "application/pdf", "events.pdf", nil
	default:
		return nil, "", "", appErrors.Validation("format", fmt.Sprintf("unsupported export format %q", format))
	}
}

func scheduleTable(views []dto.EventView) export.Table {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.Date,
			clockOrDash(v.StartTime),
			clockOrDash(v.EndTime),
			v.Title,
			strings.Join(v.EventType, ", "),
			v.OrganizerName,
			v.Location,
			strconv.Itoa(v.MaxParticipants),
		}
	}
	return export.Table{Columns: exportColumns, Rows: rows}
}

func clockOrDash(t *string) string {
	if t == nil || *t == "" {
		return "-"
	}
	return *t
}
