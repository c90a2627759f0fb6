package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"startup_valuation/pkg/core/valuation"
)

// DocumentLines returns the text lines of the document export: the title,
// then "<Label>: <value>" per metric.
func (s Serializer) DocumentLines(res *valuation.Result, labels Labels) []string {
	lines := make([]string, 0, res.Len()+1)
	lines = append(lines, s.title())
	for _, m := range res.Metrics() {
		lines = append(lines, fmt.Sprintf("%s: %s", labels.Label(m.Key), s.Formatter.Metric(m)))
	}
	return lines
}

// Document renders a single A4 page: the title line, one line per metric
// and the optional narrative paragraph. Content streams are left
// uncompressed and dates are pinned, so output is byte-stable.
func (s Serializer) Document(res *valuation.Result, labels Labels) ([]byte, error) {
	const op = "serialize.document"
	if err := checkResult(op, res); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(fixedTime)
	pdf.SetModificationDate(fixedTime)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(false)
	pdf.SetTitle(s.title(), true)
	pdf.SetCreator("startup_valuation", false)
	pdf.SetMargins(20, 20, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	lines := s.DocumentLines(res, labels)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(lines[0]), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines[1:] {
		pdf.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}

	if narrative := strings.TrimSpace(s.Narrative); narrative != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(narrative), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, valuation.SerializationError(op, "", err)
	}
	return buf.Bytes(), nil
}
