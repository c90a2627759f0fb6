// Package report serializes a valuation Result into downloadable byte
// streams: an xlsx table, a one-page PDF and an HTML summary. Every
// serializer is a pure function of its inputs; timestamps the underlying
// libraries would embed are pinned so identical input yields identical
// bytes.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/valuation"
)

// Format selects an export target.
type Format string

const (
	Tabular  Format = "xlsx"
	Document Format = "pdf"
	HTML     Format = "html"
)

// ParseFormat resolves a user-supplied export name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "tabular", "spreadsheet":
		return Tabular, nil
	case "pdf", "document":
		return Document, nil
	case "html":
		return HTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected xlsx|pdf|html)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case Tabular:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case Document:
		return "application/pdf"
	case HTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Extension returns the file extension, without dot.
func (f Format) Extension() string { return string(f) }

// DefaultTitle is the fixed first line of every document export.
const DefaultTitle = "Startup Valuation Report"

// fixedTime is stamped into document metadata in place of the wall clock.
var fixedTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Labels maps metric keys to display labels.
type Labels map[string]string

// DefaultLabels returns the display label of every metric the engine emits.
func DefaultLabels() Labels {
	return Labels{
		"projected_revenue":                  "Projected Revenue",
		"operating_profit":                   "Operating Profit",
		"ebit":                               "EBIT",
		"ebt":                                "EBT",
		"net_income":                         "Net Income",
		"free_cash_flow":                     "Free Cash Flow",
		"terminal_value":                     "Terminal Value",
		"enterprise_value":                   "Enterprise Value",
		"pre_money_valuation":                "Pre-Money Valuation",
		"post_money_valuation":               "Post-Money Valuation",
		"price_per_share":                    "Price per Share",
		"investor_stake_pct":                 "Investor Stake",
		"founder_stake_pct":                  "Founder Stake",
		"esop_pool_pct":                      "ESOP Pool",
		"investor_ownership_before_esop_pct": "Investor Ownership before ESOP",
		"founder_esop_dilution_pct":          "Founder ESOP Dilution",
		"investor_final_ownership_pct":       "Investor Final Ownership",
	}
}

// Label returns the display label for key, falling back to the key itself.
func (l Labels) Label(key string) string {
	if s, ok := l[key]; ok && s != "" {
		return s
	}
	return key
}

// keyFor inverts the mapping; labels that match nothing are taken as keys.
// When several keys share a label the smallest key wins.
func (l Labels) keyFor(label string) string {
	key := ""
	for k, v := range l {
		if v == label && (key == "" || k < key) {
			key = k
		}
	}
	if key == "" {
		return label
	}
	return key
}

// Serializer turns a Result into export bytes.
type Serializer struct {
	Formatter format.Formatter
	Title     string
	// Narrative is optional free text appended below the metrics
	// (Markdown for HTML, plain text for PDF).
	Narrative string
}

// Serialize is the package-level entry point using default title and formatter.
func Serialize(res *valuation.Result, f Format, labels Labels) ([]byte, error) {
	return Serializer{}.Serialize(res, f, labels)
}

// Serialize dispatches to the serializer for f.
func (s Serializer) Serialize(res *valuation.Result, f Format, labels Labels) ([]byte, error) {
	switch f {
	case Tabular:
		return s.Tabular(res, labels)
	case Document:
		return s.Document(res, labels)
	case HTML:
		return s.HTML(res, labels)
	}
	return nil, valuation.SerializationError("serialize", "format", fmt.Errorf("unsupported format %q", f))
}

func (s Serializer) title() string {
	if s.Title != "" {
		return s.Title
	}
	return DefaultTitle
}

var errEmptyResult = errors.New("result has no metrics")

// checkResult rejects results no export can represent faithfully.
func checkResult(op string, res *valuation.Result) error {
	if res == nil || res.Len() == 0 {
		return valuation.SerializationError(op, "", errEmptyResult)
	}
	if key, bad := res.CheckFinite(); bad {
		return valuation.SerializationError(op, key, fmt.Errorf("metric %s is not finite", key))
	}
	return nil
}
