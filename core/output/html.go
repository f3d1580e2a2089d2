package output

import (
	"bytes"
	"html/template"
	"io"

	"pingplotter-roi/core/chart"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/errors"
)

// HTMLFormatter writes a standalone HTML page with both charts inlined as
// SVG followed by the table dump.
type HTMLFormatter struct {
	// EmbedCharts inlines the rendered charts; when false only titles are shown
	EmbedCharts bool

	// Chart sets the canvas size of embedded charts
	Chart chart.Options

	// Form, when set, puts an editable input form above the report
	Form *Form
}

// Form is a GET form that re-renders the report with new inputs
type Form struct {
	Action string
	Fields []FormField
}

// FormField is one input of a Form
type FormField struct {
	Name   string
	Label  string
	Value  string
	Hidden bool
}

// NewHTMLFormatter creates an HTML formatter that embeds charts
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{EmbedCharts: true, Chart: chart.DefaultOptions()}
}

// Format returns the format type
func (f *HTMLFormatter) Format() Format {
	return FormatHTML
}

type htmlChart struct {
	Title string
	SVG   template.HTML
}

type htmlPage struct {
	Form    *Form
	Report  *roi.Report
	Charts  []htmlChart
	Summary []string
	Headers []string
	Rows    [][]string
	Marked  map[int]bool
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PingPlotter ROI</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1F2937; }
table { border-collapse: collapse; }
th, td { padding: .25rem .75rem; text-align: right; border-bottom: 1px solid #E5E7EB; }
th { color: #7C3AED; }
tr.mark td { font-weight: bold; color: #047857; }
.chart { margin: 1rem 0; }
form { display: flex; flex-wrap: wrap; gap: .75rem; align-items: end; margin-bottom: 1rem; }
label { display: flex; flex-direction: column; font-size: .85rem; }
</style>
</head>
<body>
<h1>PingPlotter ROI</h1>
{{with .Form}}<form method="get" action="{{.Action}}">
{{range .Fields}}{{if .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{else}}<label>{{.Label}} <input type="text" inputmode="numeric" name="{{.Name}}" value="{{.Value}}"></label>
{{end}}{{end}}<button type="submit">Calculate</button>
</form>
{{end}}<p>{{.Report.Input.UserCount}} users &times; {{.Report.Input.CriticalServices}} critical services</p>
<ul>{{range .Summary}}<li>{{.}}</li>{{end}}</ul>
{{range .Charts}}<div class="chart"><h2>{{.Title}}</h2>{{.SVG}}</div>
{{end}}<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range $i, $row := .Rows}}<tr{{if index $.Marked $i}} class="mark"{{end}}>{{range $row}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// Render writes the report to w
func (f *HTMLFormatter) Render(w io.Writer, rep *roi.Report) error {
	p := htmlPage{
		Form:    f.Form,
		Report:  rep,
		Summary: summaryLines(rep),
		Headers: displayHeaders(),
		Marked:  make(map[int]bool),
	}
	for i, r := range rep.Table.Rows() {
		p.Rows = append(p.Rows, displayRow(r))
		if (rep.MinROI != nil && r.Traces == rep.MinROI.Traces) || (rep.MaxROI != nil && r.Traces == rep.MaxROI.Traces) {
			p.Marked[i] = true
		}
	}

	for _, data := range []roi.ChartData{rep.ROIChart, rep.BreakevenChart} {
		c := htmlChart{Title: data.Title}
		if f.EmbedCharts {
			var buf bytes.Buffer
			if err := chart.Render(&buf, data, chart.FormatSVG, f.Chart); err != nil {
				return err
			}
			// go-chart output is trusted markup
			c.SVG = template.HTML(buf.String())
		}
		p.Charts = append(p.Charts, c)
	}

	if err := page.Execute(w, p); err != nil {
		return errors.Render("failed to render html report", err)
	}
	return nil
}
