package shortcuts

import (
	"fmt"

	"github.com/beevik/etree"
)

// CustomLabel2 marks a shortcut the user added by hand.
const CustomLabel2 = "32024"

// Shortcut is one <shortcut> entry of a menu document.
type Shortcut struct {
	Label  string
	Label2 string
	Icon   string
	Thumb  string
	Action string
}

// Menu is the document behind one group.
type Menu struct {
	Group string
	doc   *etree.Document
}

// NewMenu returns an empty <shortcuts/> document.
func NewMenu(group string) *Menu {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateElement("shortcuts")
	return &Menu{Group: group, doc: doc}
}

// ParseMenu reads a menu document.
func ParseMenu(group string, b []byte) (*Menu, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("parse menu %s: %w", group, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse menu %s: no root element", group)
	}
	return &Menu{Group: group, doc: doc}, nil
}

func text(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return c.Text()
	}
	return ""
}

// Shortcuts returns the entries in document order.
func (m *Menu) Shortcuts() []Shortcut {
	var out []Shortcut
	for _, el := range m.doc.Root().SelectElements("shortcut") {
		out = append(out, Shortcut{
			Label:  text(el, "label"),
			Label2: text(el, "label2"),
			Icon:   text(el, "icon"),
			Thumb:  text(el, "thumb"),
			Action: text(el, "action"),
		})
	}
	return out
}

// Len returns the number of shortcuts.
func (m *Menu) Len() int {
	return len(m.doc.Root().SelectElements("shortcut"))
}

// Append adds s at the end of the menu.
func (m *Menu) Append(s Shortcut) {
	el := m.doc.Root().CreateElement("shortcut")
	el.CreateElement("label").SetText(s.Label)
	el.CreateElement("label2").SetText(s.Label2)
	el.CreateElement("icon").SetText(s.Icon)
	el.CreateElement("thumb").SetText(s.Thumb)
	el.CreateElement("action").SetText(s.Action)
}

// Bytes renders the indented document.
func (m *Menu) Bytes() ([]byte, error) {
	m.doc.Indent(2)
	return m.doc.WriteToBytes()
}
