package docx

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/lawdit/lawdit"
)

func contentTypes() *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsTypes)

	def := func(ext, ct string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", ct)
	}
	def("rels", "application/vnd.openxmlformats-package.relationships+xml")
	def("xml", "application/xml")

	override := func(part, ct string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}
	override("/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	override("/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	override("/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml")
	override("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	return doc
}

func relationships(rels ...[3]string) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsPkgRels)
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r[0])
		el.CreateAttr("Type", r[1])
		el.CreateAttr("Target", r[2])
	}
	return doc
}

func packageRels() *etree.Document {
	return relationships(
		[3]string{"rId1", relDocument, "word/document.xml"},
		[3]string{"rId2", relCore, "docProps/core.xml"},
	)
}

func documentRels() *etree.Document {
	return relationships(
		[3]string{"rId1", relStyles, "styles.xml"},
		[3]string{"rId2", relSettings, "settings.xml"},
	)
}

func coreProperties(room *lawdit.DataRoom, generated time.Time) *etree.Document {
	doc := newXMLDocument()
	cp := doc.CreateElement("cp:coreProperties")
	cp.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	cp.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	cp.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	cp.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	cp.CreateElement("dc:title").SetText(ReportTitle)
	cp.CreateElement("dc:subject").SetText(room.Name)
	cp.CreateElement("dc:creator").SetText("lawdit")
	created := cp.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(generated.UTC().Format(time.RFC3339))
	return doc
}

func settings() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:settings")
	root.CreateAttr("xmlns:w", nsW)
	setVal(root, "w:updateFields", "true")
	return doc
}

// styles defines the paragraph styles referenced from document.xml.
func styles() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	rPrDefault := root.CreateElement("w:docDefaults").CreateElement("w:rPrDefault").CreateElement("w:rPr")
	fonts := rPrDefault.CreateElement("w:rFonts")
	for _, attr := range []string{"w:ascii", "w:hAnsi", "w:cs"} {
		fonts.CreateAttr(attr, "Calibri")
	}
	setVal(rPrDefault, "w:sz", "22")

	type style struct {
		id, name string
		outline  int // -1 when not a heading
		size     int
		bold     bool
		color    string
		spacing  int
		font     string
	}
	for _, s := range []style{
		{id: "Normal", name: "Normal", outline: -1, spacing: 120},
		{id: "Title", name: "Title", outline: -1, size: 56, bold: true, color: "1F3864", spacing: 240},
		{id: "Subtitle", name: "Subtitle", outline: -1, size: 32, color: "2E74B5", spacing: 240},
		{id: "Heading1", name: "heading 1", outline: 0, size: 32, bold: true, color: "1F3864", spacing: 240},
		{id: "Heading2", name: "heading 2", outline: 1, size: 26, bold: true, color: "2E74B5", spacing: 200},
		{id: "Heading3", name: "heading 3", outline: 2, size: 22, bold: true, color: "404040", spacing: 120},
		{id: "ListBullet", name: "List Bullet", outline: -1, spacing: 60},
		{id: "Code", name: "Code", outline: -1, size: 18, spacing: 60, font: "Consolas"},
	} {
		el := root.CreateElement("w:style")
		el.CreateAttr("w:type", "paragraph")
		el.CreateAttr("w:styleId", s.id)
		setVal(el, "w:name", s.name)
		if s.id != "Normal" {
			setVal(el, "w:basedOn", "Normal")
			setVal(el, "w:next", "Normal")
		}
		setVal(el, "w:qFormat", "true")

		pPr := el.CreateElement("w:pPr")
		sp := pPr.CreateElement("w:spacing")
		sp.CreateAttr("w:after", strconv.Itoa(s.spacing))
		if s.outline >= 0 {
			pPr.CreateElement("w:keepNext")
			setVal(pPr, "w:outlineLvl", strconv.Itoa(s.outline))
		}
		if s.id == "ListBullet" {
			pPr.CreateElement("w:ind").CreateAttr("w:left", "720")
		}

		rPr := el.CreateElement("w:rPr")
		if s.font != "" {
			f := rPr.CreateElement("w:rFonts")
			f.CreateAttr("w:ascii", s.font)
			f.CreateAttr("w:hAnsi", s.font)
		}
		if s.bold {
			rPr.CreateElement("w:b")
		}
		if s.color != "" {
			setVal(rPr, "w:color", s.color)
		}
		if s.size > 0 {
			setVal(rPr, "w:sz", strconv.Itoa(s.size))
		}
	}

	tbl := root.CreateElement("w:style")
	tbl.CreateAttr("w:type", "table")
	tbl.CreateAttr("w:styleId", "TableGrid")
	setVal(tbl, "w:name", "Table Grid")
	borders := tbl.CreateElement("w:tblPr").CreateElement("w:tblBorders")
	for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		b := borders.CreateElement(side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", "A6A6A6")
	}
	return doc
}
