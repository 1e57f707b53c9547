package view

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/css"
	"rtable/model"
	"rtable/table"
)

// DefaultDispatcher returns dispatcher with converters for the table
// attributes of the model.
func DefaultDispatcher() *Dispatcher {
	d := NewDispatcher()
	for _, key := range []string{model.AttrRowspan, model.AttrColspan} {
		d.On(model.CellName, key, PriorityNormal, func(attr Attribute, view *etree.Element) bool {
			if v := model.IntAttribute(attr.Element, attr.Key, 1); v > 1 {
				view.CreateAttr(attr.Key, attr.Value)
			}
			return true
		})
	}
	// headings are expressed by thead and th
	for _, key := range []string{model.AttrHeadingRows, model.AttrHeadingColumns} {
		d.On(model.TableName, key, PriorityNormal, func(Attribute, *etree.Element) bool { return true })
	}
	d.On(model.ColumnGroupName, model.AttrColumnWidths, PriorityNormal, func(attr Attribute, view *etree.Element) bool {
		for _, w := range table.ParseColumnWidths(attr.Value) {
			var style css.Declarations
			style.Set("width", css.Value{Raw: table.FormatColumnWidths([]float64{w})})
			view.CreateElement("col").CreateAttr("style", style.String())
		}
		return true
	})
	return d
}

// Downcaster renders model into XHTML.
type Downcaster struct {
	dispatcher *Dispatcher
	log        *zap.Logger
}

// NewDowncaster returns downcaster using d for attributes, nil d means
// DefaultDispatcher.
func NewDowncaster(d *Dispatcher, log *zap.Logger) *Downcaster {
	if d == nil {
		d = DefaultDispatcher()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Downcaster{dispatcher: d, log: log.Named("downcast")}
}

// Document renders all blocks of root into XHTML document body.
func (c *Downcaster) Document(root *etree.Element, title string) *etree.Document {
	doc := etree.NewDocument()
	// HTML parsers do not accept self-closing title or td
	doc.WriteSettings.CanonicalEndTags = true
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")

	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	head.CreateElement("title").SetText(title)

	body := html.CreateElement("body")
	for _, el := range root.ChildElements() {
		c.block(el, body)
	}
	return doc
}

// Table returns figure element with the rendered table.
func (c *Downcaster) Table(t *etree.Element) *etree.Element {
	figure := etree.NewElement("figure")
	figure.CreateAttr("class", "table")
	c.appendTable(t, figure)
	return figure
}

func (c *Downcaster) block(el, parent *etree.Element) {
	switch el.Tag {
	case model.TableName:
		figure := parent.CreateElement("figure")
		figure.CreateAttr("class", "table")
		c.appendTable(el, figure)
	case model.ParagraphName, model.CaptionName:
		p := parent.CreateElement("p")
		c.attributes(el, p)
		appendText(el, p)
	default:
		c.log.Debug("Unknown block rendered as div", zap.String("element", el.Tag))
		div := parent.CreateElement("div")
		div.CreateAttr("class", el.Tag)
		for _, child := range el.ChildElements() {
			c.block(child, div)
		}
	}
}

func (c *Downcaster) appendTable(t, figure *etree.Element) {
	walker, err := table.NewWalker(t)
	if err != nil {
		c.log.Debug("Table skipped", zap.Error(err))
		return
	}
	view := figure.CreateElement("table")
	c.attributes(t, view)

	if groups := model.ChildrenNamed(t, model.ColumnGroupName); len(groups) > 0 {
		colgroup := view.CreateElement("colgroup")
		c.attributes(groups[0], colgroup)
		if len(colgroup.ChildElements()) == 0 {
			view.RemoveChild(colgroup)
		}
	}

	headingRows, headingColumns := model.HeadingRows(t), model.HeadingColumns(t)
	var thead, tbody *etree.Element
	var rows []*etree.Element
	for i := range model.ChildrenNamed(t, model.RowName) {
		var section *etree.Element
		if i < headingRows {
			if thead == nil {
				thead = view.CreateElement("thead")
			}
			section = thead
		} else {
			if tbody == nil {
				tbody = view.CreateElement("tbody")
			}
			section = tbody
		}
		rows = append(rows, section.CreateElement("tr"))
	}

	for slot := range walker.All() {
		tag := "td"
		if slot.Row < headingRows || slot.Column < headingColumns {
			tag = "th"
		}
		cell := rows[slot.Row].CreateElement(tag)
		c.attributes(slot.Cell, cell)
		c.cellContent(slot.Cell, cell)
	}

	if captions := model.ChildrenNamed(t, model.CaptionName); len(captions) > 0 {
		appendText(captions[0], figure.CreateElement("figcaption"))
	}
	c.log.Debug("Table rendered", zap.Int("rows", len(rows)), zap.Int("headingRows", headingRows), zap.Int("headingColumns", headingColumns))
}

// cellContent renders single plain paragraph inline, anything else as blocks.
func (c *Downcaster) cellContent(cell, view *etree.Element) {
	blocks := cell.ChildElements()
	if len(blocks) == 1 && model.Is(blocks[0], model.ParagraphName) && len(blocks[0].Attr) == 0 {
		appendText(blocks[0], view)
		return
	}
	for _, b := range blocks {
		c.block(b, view)
	}
}

func (c *Downcaster) attributes(el, view *etree.Element) {
	for _, a := range el.Attr {
		attr := Attribute{Element: el, Key: a.FullKey(), Value: a.Value}
		if !c.dispatcher.Dispatch(attr, view) {
			c.log.Debug("Attribute not converted", zap.String("element", el.Tag), zap.String("attribute", attr.Key))
		}
	}
}

func appendText(from, to *etree.Element) {
	for _, tok := range from.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			to.CreateText(cd.Data)
		}
	}
}
