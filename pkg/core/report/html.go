package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"startup_valuation/pkg/core/valuation"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the report as GitHub-flavoured Markdown: title, a
// Metric/Value table and the narrative, if any.
func (s Serializer) Markdown(res *valuation.Result, labels Labels) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.title())
	b.WriteString("| Metric | Value |\n| --- | ---: |\n")
	for _, m := range res.Metrics() {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(labels.Label(m.Key)), escapeCell(s.Formatter.Metric(m)))
	}
	if narrative := strings.TrimSpace(s.Narrative); narrative != "" {
		b.WriteString("\n")
		b.WriteString(narrative)
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders Markdown into a standalone HTML page. Raw HTML inside the
// narrative is not passed through.
func (s Serializer) HTML(res *valuation.Result, labels Labels) ([]byte, error) {
	const op = "serialize.html"
	if err := checkResult(op, res); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(s.Markdown(res, labels)), &body); err != nil {
		return nil, valuation.SerializationError(op, "", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(s.title()))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
