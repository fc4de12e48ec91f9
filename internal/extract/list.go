package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/hoaregistry/internal/dom"
	"github.com/nao1215/hoaregistry/internal/model"
)

// UnknownName is the display name used for list rows without a name cell.
const UnknownName = "Unknown"

const selectorEntityRow = "tr.link-view"

// EntityList extracts the entities of a search result table in document
// order. Rows without a data-pid attribute are skipped.
func EntityList(markup string) []model.Entity {
	entities := make([]model.Entity, 0)
	if strings.TrimSpace(markup) == "" {
		return entities
	}
	doc, err := dom.Parse(markup)
	if err != nil {
		return entities
	}

	doc.Find(selectorEntityRow).Each(func(_ int, row *goquery.Selection) {
		pid, ok := row.Attr("data-pid")
		pid = strings.TrimSpace(pid)
		if !ok || pid == "" {
			return
		}
		entities = append(entities, model.Entity{ID: pid, Name: rowName(row)})
	})
	return entities
}

// rowName returns the first line of the row's first cell.
func rowName(row *goquery.Selection) string {
	lines := dom.Lines(row.Find("td").First())
	if len(lines) == 0 {
		return UnknownName
	}
	return lines[0]
}
