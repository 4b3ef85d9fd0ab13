package report

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/comtec/field-reports/internal/domain/models"
)

const documentTitle = "Reporte Diario - COMTEC"

// Renderer produces the archival document for a submission. The file at
// path is fully written and closed before the call returns, so the caller
// can hand it straight to the uploader.
type Renderer interface {
	RenderToFile(sub models.ReportSubmission, path string) error
}

// PDFRenderer renders the fixed single-document report layout.
type PDFRenderer struct{}

// NewPDFRenderer returns a stateless PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// RenderToFile writes the report PDF to the given path.
func (*PDFRenderer) RenderToFile(sub models.ReportSubmission, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr(documentTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range documentLines(sub) {
		pdf.MultiCell(0, 7, tr(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write report pdf: %w", err)
	}
	return nil
}

// documentLines builds the report body in its fixed order. Kept separate
// from the PDF plumbing so the layout can be asserted on directly.
func documentLines(sub models.ReportSubmission) []string {
	return []string{
		fmt.Sprintf("Fecha: %s", sub.Date),
		fmt.Sprintf("Supervisor: %s", sub.Supervisor),
		fmt.Sprintf("Proyecto: %s", sub.Project),
		fmt.Sprintf("Actividad: %s", sub.Activity),
		fmt.Sprintf("Técnicos: %s", strings.Join(sub.Technicians, ", ")),
		fmt.Sprintf("Asistencia: %s", strings.Join(sub.Attendance, ", ")),
		"",
		"Detalle de tareas:",
		sub.Tasks,
		"",
		"Dificultades encontradas:",
		sub.Difficulties,
	}
}
