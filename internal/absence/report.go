package absence

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
	"github.com/jung-kurt/gofpdf"
)

var reportColumns = []struct {
	title string
	width float64
}{
	{"ID", 14},
	{"Employee", 22},
	{"Type", 34},
	{"Start", 24},
	{"End", 24},
	{"Days", 14},
	{"Status", 24},
	{"Decided by", 24},
}

// RenderReport lists the matching requests as an A4 PDF. Privileged only.
func (s *Service) RenderReport(ctx context.Context, id access.Identity, filter ListFilter) ([]byte, error) {
	list, err := s.ListAll(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	out, err := renderReport(list, filter, s.now())
	if err != nil {
		s.logger.Error("failed to render absence report", "error", err)
		return nil, apperrors.NewInternalError("failed to render absence report", err)
	}

	s.logger.Info("absence report rendered", "rows", len(list), "subject_id", id.SubjectID, "status", filter.Status)
	return out, nil
}

func renderReport(list []*Absence, filter ListFilter, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Absence report", false)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Absence report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	scope := "all statuses"
	if filter.Status != "" {
		scope = "status " + string(filter.Status)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %s, %d requests", generatedAt.UTC().Format(time.RFC3339), scope, len(list)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, a := range list {
		decidedBy := ""
		if a.ApprovedBy != nil {
			decidedBy = strconv.FormatInt(*a.ApprovedBy, 10)
		}
		cells := []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.EmployeeID, 10),
			strings.ReplaceAll(string(a.Type), "_", " "),
			a.StartDate.Format(validation.DateLayout),
			a.EndDate.Format(validation.DateLayout),
			strconv.Itoa(a.Days()),
			string(a.Status),
			decidedBy,
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
