package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"startup_valuation/pkg/core/valuation"
)

// SheetName is the worksheet holding the Metric/Value table.
const SheetName = "Valuation"

// numFmts is ordered so style ids come out the same on every run.
var numFmts = []struct {
	kind valuation.Kind
	code string
}{
	{valuation.Currency, "#,##0.00"},
	{valuation.Percent, `0.00"%"`},
	{valuation.Count, "#,##0.00"},
}

// Tabular writes a two-column Metric/Value sheet, one row per metric in
// computation order. Values keep full float64 precision; the cell number
// format applies the display rounding.
func (s Serializer) Tabular(res *valuation.Result, labels Labels) ([]byte, error) {
	const op = "serialize.tabular"
	if err := checkResult(op, res); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	fail := func(err error) ([]byte, error) {
		return nil, valuation.SerializationError(op, "", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fail(err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:          s.title(),
		Creator:        "startup_valuation",
		LastModifiedBy: "startup_valuation",
		Created:        fixedTime.Format(time.RFC3339),
		Modified:       fixedTime.Format(time.RFC3339),
	}); err != nil {
		return fail(err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail(err)
	}
	styles := make(map[valuation.Kind]int, len(numFmts))
	for _, nf := range numFmts {
		code := nf.code
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return fail(err)
		}
		styles[nf.kind] = id
	}

	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Metric", "Value"}); err != nil {
		return fail(err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "B1", header); err != nil {
		return fail(err)
	}

	for i, m := range res.Metrics() {
		row := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)

		if err := f.SetCellStr(SheetName, labelCell, labels.Label(m.Key)); err != nil {
			return fail(err)
		}
		if err := f.SetCellFloat(SheetName, valueCell, m.Value, -1, 64); err != nil {
			return fail(err)
		}
		if err := f.SetCellStyle(SheetName, valueCell, valueCell, styles[m.Kind]); err != nil {
			return fail(err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 36); err != nil {
		return fail(err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 20); err != nil {
		return fail(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fail(err)
	}
	out, err := normalizeZip(buf.Bytes())
	if err != nil {
		return fail(err)
	}
	return out, nil
}

// Row is one parsed line of a tabular export.
type Row struct {
	Key   string
	Label string
	Value float64
}

// ParseTabular reads a Tabular export back. Labels are mapped to metric
// keys through labels; unknown labels are used as keys verbatim.
func ParseTabular(data []byte, labels Labels) ([]Row, error) {
	const op = "parse.tabular"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, valuation.SerializationError(op, "", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, valuation.SerializationError(op, "", err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][0] != "Metric" || rows[0][1] != "Value" {
		return nil, valuation.SerializationError(op, "", fmt.Errorf("missing Metric/Value header"))
	}

	out := make([]Row, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if len(r) < 2 {
			return nil, valuation.SerializationError(op, "", fmt.Errorf("row %d has %d cells", i+2, len(r)))
		}
		v, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return nil, valuation.SerializationError(op, r[0], fmt.Errorf("row %d: %w", i+2, err))
		}
		out = append(out, Row{Key: labels.keyFor(r[0]), Label: r[0], Value: v})
	}
	return out, nil
}

// normalizeZip rewrites an OOXML container with entries sorted by name and
// a fixed modification time. excelize walks its parts in map order.
func normalizeZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := append([]*zip.File(nil), zr.File...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, zf := range files {
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     zf.Name,
			Method:   zip.Deflate,
			Modified: fixedTime,
		})
		if err != nil {
			rc.Close()
			return nil, err
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
