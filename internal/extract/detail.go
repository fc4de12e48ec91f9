package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/hoaregistry/internal/dom"
	"github.com/nao1215/hoaregistry/internal/model"
)

// Selectors describing the registry detail page layout.
const (
	selectorName          = "h1.mb-0"
	selectorDBA           = "h3.my-0"
	selectorRegistration  = "h6"
	selectorRoleContainer = "div.row.border.primary-color-border.mt-4"
	selectorRoleHeading   = "h4.mb-0"
	selectorRoleContact   = "p.mt-0.ml-3"
	selectorBoardHeading  = "h4.border-bottom"
	selectorBoardColumn   = "div.col-md-6, div.col-lg-3"
	selectorBoardContact  = "p.ml-3"
)

// Labels and role markers as they appear on the page.
const (
	labelHOAName     = "HOA Name:"
	labelDBA         = "DBA:"
	labelLocation    = "Location:"
	labelContactInfo = "Contact Info:"

	markerPresident = "President"
	markerManager   = "Community Manager"
	markerPayoff    = "Payoff Contact"
	markerBoard     = "Board Members"
	markerCommittee = "Management Committee"
)

// Detail extracts the detail record of one entity from its page markup.
// It returns false when markup is empty, which callers treat as "no record".
// Any other markup yields a record, with unextractable fields left empty.
func Detail(markup, entityID string) (*model.DetailRecord, bool) {
	if strings.TrimSpace(markup) == "" {
		return nil, false
	}
	doc, err := dom.Parse(markup)
	if err != nil {
		return nil, false
	}

	rec := model.NewDetailRecord(entityID)
	rec.Fixed.HOAName = hoaName(doc)
	rec.Fixed.DBA = dba(doc)
	registration(doc, &rec.Fixed)
	rec.Fixed.Location = dom.Text(dom.HeadingFollowedBy(doc, "h5", labelLocation, "p"))
	rec.Fixed.MailingAddress = strings.Join(dom.Lines(dom.HeadingFollowedBy(doc, "h5", labelContactInfo, "p")), ", ")
	roleCards(doc, rec)
	boardMembers(doc, rec)
	return rec, true
}

func hoaName(doc *goquery.Document) string {
	return StripLabel(dom.Text(dom.FirstOf(doc, selectorName, "h1")), labelHOAName)
}

func dba(doc *goquery.Document) string {
	text := dom.Text(dom.FirstOf(doc, selectorDBA, "h3"))
	if !strings.Contains(text, labelDBA) {
		return ""
	}
	return strings.TrimSpace(strings.Replace(text, labelDBA, "", 1))
}

// registration fills the four fields held by the registration heading.
// The status comes from the heading's inline span when present.
func registration(doc *goquery.Document, fixed *model.FixedFields) {
	block := doc.Find(selectorRegistration).First()
	if block.Length() == 0 {
		return
	}
	text := dom.LineText(block)
	fixed.RegistrationNumber = RegistrationNumber(text)
	fixed.RegistrationType = RegistrationType(text)
	fixed.Expires = Expires(text)

	if span := block.Find("span").First(); span.Length() > 0 {
		fixed.Status = dom.Text(span)
	} else {
		fixed.Status = Status(text)
	}
}

// classifyRole maps a role card heading to its group.
func classifyRole(heading string) (model.Role, bool) {
	switch {
	case strings.Contains(heading, markerPresident):
		return model.RolePresident, true
	case strings.Contains(heading, markerManager):
		return model.RoleManager, true
	case strings.Contains(heading, markerPayoff):
		return model.RolePayoffContact, true
	default:
		return "", false
	}
}

func roleCards(doc *goquery.Document, rec *model.DetailRecord) {
	container := doc.Find(selectorRoleContainer).First()
	container.Find(selectorRoleHeading).Each(func(_ int, h *goquery.Selection) {
		role, ok := classifyRole(dom.Text(h))
		if !ok {
			return
		}
		p := h.Parent().Find(selectorRoleContact).First()
		if p.Length() == 0 {
			return
		}
		rec.Add(role, Contact(p))
	})
}

// boardMembers walks the layout columns following the board heading's
// parent and stops at the first sibling that is not a column.
func boardMembers(doc *goquery.Document, rec *model.DetailRecord) {
	header := doc.Find(selectorBoardHeading).First()
	if header.Length() == 0 {
		return
	}
	text := header.Text()
	if !strings.Contains(text, markerBoard) && !strings.Contains(text, markerCommittee) {
		return
	}
	for _, column := range dom.SiblingsWhile(header.Parent(), selectorBoardColumn) {
		p := column.Find(selectorBoardContact).First()
		if p.Length() == 0 {
			continue
		}
		rec.Add(model.RoleBoardMember, Contact(p))
	}
}
