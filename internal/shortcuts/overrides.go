package shortcuts

import (
	"fmt"

	"github.com/agentic-research/shortcuts/api"
	"github.com/beevik/etree"
)

// OverridesFile is the skin file carrying property defaults and rules.
const OverridesFile = "overrides.xml"

// Overrides holds what a skin declares about additional properties.
type Overrides struct {
	Defaults     []api.Record
	Requirements []api.Requirement
}

// ParseOverrides reads <propertydefault group labelID property> and
// <property property requires> (or <propertySettings>) elements.
func ParseOverrides(b []byte) (*Overrides, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	o := &Overrides{}
	root := doc.Root()
	if root == nil {
		return o, nil
	}
	for _, el := range root.SelectElements("propertydefault") {
		prop := el.SelectAttrValue("property", "")
		label := el.SelectAttrValue("labelID", "")
		if prop == "" || label == "" {
			continue
		}
		group := el.SelectAttrValue("group", api.MainMenu)
		o.Defaults = append(o.Defaults, api.NewRecord(group, label, prop, el.Text()))
	}
	for _, tag := range []string{"property", "propertySettings"} {
		for _, el := range root.SelectElements(tag) {
			prop := el.SelectAttrValue("property", "")
			req := el.SelectAttrValue("requires", "")
			if prop == "" || req == "" {
				continue
			}
			o.Requirements = append(o.Requirements, api.Requirement{Property: prop, Requires: req})
		}
	}
	return o, nil
}

// Overrides loads the skin's overrides file. A skin without one has no
// defaults and no rules.
func (s *Store) Overrides() (*Overrides, error) {
	b, ok, err := readOptional(s.Skin, OverridesFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Overrides{}, nil
	}
	return ParseOverrides(b)
}

// DefaultProperties returns the skin's property defaults.
func (s *Store) DefaultProperties() ([]api.Record, error) {
	o, err := s.Overrides()
	if err != nil {
		return nil, err
	}
	return o.Defaults, nil
}
