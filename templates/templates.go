package templates

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/dffy/linediff/pkg/diff"
)

var (
	funcMap = map[string]any{
		"hunk_header": func(hunk diff.Hunk) string {
			return fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.LineOld, hunk.CountOld, hunk.LineNew, hunk.CountNew)
		},
		"split_rows": buildSplitRows,
	}
	Templates = template.Must(
		template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "*.tmpl"),
	)
	//go:embed *
	templateFS embed.FS
)

type FileTemplateData struct {
	ID      string
	Diff    diff.Unified
	Space   string
	Context int
	Split   bool
	Query   url.Values
}

func (f *FileTemplateData) WithQueryValue(key, value string) string {
	uvCopy := make(url.Values)
	maps.Copy(uvCopy, f.Query)
	if value == "" {
		uvCopy.Del(key)
	} else {
		uvCopy.Set(key, value)
	}
	if len(uvCopy) == 0 {
		return ""
	}
	return "?" + uvCopy.Encode()
}

// DetailTemplateData feeds the detail.tmpl template, which renders the
// structured [diff.LinesDiff] result (line/character mappings and detected
// moves) instead of the classic unified-diff text.
type DetailTemplateData struct {
	ID            string
	OriginalName  string
	ModifiedName  string
	OriginalLines []string
	ModifiedLines []string
	Result        diff.LinesDiff
	Query         url.Values
}

// SplitRow is one row of a side-by-side (split) view of a [diff.Hunk]: a
// deleted line and an inserted line shown next to each other when they
// belong to the same run of changes, with nils standing in for a blank
// padding cell so the two columns stay aligned.
type SplitRow struct {
	Left  *diff.HunkLine
	Right *diff.HunkLine
}

func buildSplitRows(h diff.Hunk) []SplitRow {
	var rows []SplitRow
	for i := 0; i < len(h.Lines); {
		l := h.Lines[i]
		if l.Type() == diff.TypeEqual {
			rows = append(rows, SplitRow{Left: &h.Lines[i], Right: &h.Lines[i]})
			i++
			continue
		}
		ins, del := countRun(h.Lines[i:])
		for k := 0; k < del || k < ins; k++ {
			var left, right *diff.HunkLine
			if k < del {
				left = &h.Lines[i+k]
			}
			if k < ins {
				right = &h.Lines[i+del+k]
			}
			rows = append(rows, SplitRow{Left: left, Right: right})
		}
		i += ins + del
	}
	return rows
}

// countRun counts the leading run of deletes followed by inserts at the
// start of ll, mirroring how [diff.DiffWithOptions] lays out a mismatched
// run: all deletions first, then all insertions.
func countRun(ll []diff.HunkLine) (ins, del int) {
	i := 0
	for ; i < len(ll) && ll[i].Type() == diff.TypeDelete; i++ {
		del++
	}
	for ; i < len(ll) && ll[i].Type() == diff.TypeInsert; i++ {
		ins++
	}
	return ins, del
}

func (f *FileTemplateData) ContextLinks() template.HTML {
	const (
		minVal = 0
		maxVal = 1000
	)
	smallest := f.Context - 3
	greatest := f.Context + 3
	if smallest < minVal {
		greatest += (minVal - smallest)
		smallest = minVal
	}
	if greatest > maxVal {
		smallest -= (greatest - maxVal)
		greatest = maxVal
	}
	var bld strings.Builder

	for i := smallest; i <= greatest; i++ {
		if bld.Len() != 0 {
			bld.WriteString(" | ")
		}
		if i == f.Context {
			bld.WriteString("<b>" + strconv.Itoa(f.Context) + "</b>")
			continue
		}
		intString := strconv.Itoa(i)
		if intString == "3" {
			intString = ""
		}
		uri := "/" + f.ID + f.WithQueryValue("c", intString)
		bld.WriteString(
			`<a href="` + html.EscapeString(uri) + `">` +
				strconv.Itoa(i) + `</a>`,
		)
	}
	return template.HTML(bld.String())
}
