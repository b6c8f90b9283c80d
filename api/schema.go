package api

// Kind classifies a resolved library view.
type Kind int

const (
	// KindItem is a leaf view listing content directly.
	KindItem Kind = iota
	// KindFolder is a directory-level node described by its index.xml.
	KindFolder
	// KindGrouped is a leaf view whose content is organised into sub-groups.
	KindGrouped
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindItem:
		return "item"
	case KindGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// Unordered is the OriginalOrdinal of a view that carries no order attribute.
const Unordered = "-"

// UnknownMediaType is returned by media type lookups that cannot decide.
const UnknownMediaType = "unknown"

// Library roots understood by the resolver.
const (
	VideoRoot = "library://video"
	MusicRoot = "library://music"
)

// Descriptor is one resolved menu/view entry.
type Descriptor struct {
	// Label is the text of the <label> element. Often a localized string id.
	Label string `json:"label"`
	// Icon is the text of the <icon> element, empty when absent.
	Icon string `json:"icon"`
	// Target is the navigation target: the folder path for folders, the
	// content path for items.
	Target string `json:"target"`
	Kind   Kind   `json:"kind"`
	// Ordinal is the display position. Unordered views get negative ordinals.
	Ordinal int `json:"ordinal"`
	// OriginalOrdinal is the raw order attribute, or Unordered.
	OriginalOrdinal string `json:"original_ordinal"`
	// MediaType is only meaningful when HasMediaType is set.
	MediaType    string `json:"media_type,omitempty"`
	HasMediaType bool   `json:"-"`
	// Source is the file the descriptor was parsed from.
	Source string `json:"source"`
}

// Ordered reports whether the view declared an explicit order.
func (d *Descriptor) Ordered() bool {
	return d.OriginalOrdinal != Unordered
}
