package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// WordprocessingML namespaces.
const (
	nsW         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	relDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
)

// run formatting.
type runStyle struct {
	Bold   bool
	Italic bool
	Color  string
	// Size is in half-points.
	Size int
}

// body accumulates paragraphs and tables inside <w:body>.
type body struct {
	el *etree.Element
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func setVal(parent *etree.Element, tag, val string) *etree.Element {
	el := parent.CreateElement(tag)
	el.CreateAttr("w:val", val)
	return el
}

func (b *body) paragraph(style string) *etree.Element {
	return paragraphIn(b.el, style)
}

func paragraphIn(parent *etree.Element, style string) *etree.Element {
	p := parent.CreateElement("w:p")
	if style != "" {
		setVal(p.CreateElement("w:pPr"), "w:pStyle", style)
	}
	return p
}

// text appends a paragraph holding a single run.
func (b *body) text(style, s string, rs runStyle) *etree.Element {
	p := b.paragraph(style)
	addRun(p, s, rs)
	return p
}

func addRun(p *etree.Element, s string, rs runStyle) *etree.Element {
	r := p.CreateElement("w:r")
	if rs != (runStyle{}) {
		rPr := r.CreateElement("w:rPr")
		if rs.Bold {
			rPr.CreateElement("w:b")
		}
		if rs.Italic {
			rPr.CreateElement("w:i")
		}
		if rs.Color != "" {
			setVal(rPr, "w:color", rs.Color)
		}
		if rs.Size > 0 {
			setVal(rPr, "w:sz", strconv.Itoa(rs.Size))
		}
	}
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(s)
	return r
}

func (b *body) pageBreak() {
	r := b.el.CreateElement("w:p").CreateElement("w:r")
	r.CreateElement("w:br").CreateAttr("w:type", "page")
}

// tableOfContents inserts a TOC field over heading levels 1-2. Word fills
// it in when the document is opened because settings request updateFields.
func (b *body) tableOfContents(placeholder string) {
	p := b.paragraph("")
	fld := func(kind string) {
		c := p.CreateElement("w:r").CreateElement("w:fldChar")
		c.CreateAttr("w:fldCharType", kind)
		if kind == "begin" {
			c.CreateAttr("w:dirty", "true")
		}
	}
	fld("begin")
	instr := p.CreateElement("w:r").CreateElement("w:instrText")
	instr.CreateAttr("xml:space", "preserve")
	instr.SetText(` TOC \o "1-2" \h \z \u `)
	fld("separate")
	addRun(p, placeholder, runStyle{Italic: true})
	fld("end")
}

// table appends a bordered full-width table. The first row is a header.
type table struct {
	el *etree.Element
}

func (b *body) table(headers []string, widths []int) *table {
	tbl := b.el.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	setVal(tblPr, "w:tblStyle", "TableGrid")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "5000")
	w.CreateAttr("w:type", "pct")

	grid := tbl.CreateElement("w:tblGrid")
	for _, width := range widths {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(width))
	}

	t := &table{el: tbl}
	row := tbl.CreateElement("w:tr")
	setVal(row.CreateElement("w:trPr"), "w:tblHeader", "true")
	for _, h := range headers {
		cell := t.cell(row)
		shd := cell.SelectElement("w:tcPr").CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", "1F3864")
		addRun(paragraphIn(cell, ""), h, runStyle{Bold: true, Color: "FFFFFF"})
	}
	return t
}

func (t *table) cell(row *etree.Element) *etree.Element {
	tc := row.CreateElement("w:tc")
	tc.CreateElement("w:tcPr")
	return tc
}

// row appends a data row. Each cell gets one run with its own style.
func (t *table) row(cells []string, styles []runStyle) {
	row := t.el.CreateElement("w:tr")
	for i, s := range cells {
		var rs runStyle
		if i < len(styles) {
			rs = styles[i]
		}
		addRun(paragraphIn(t.cell(row), ""), s, rs)
	}
}
