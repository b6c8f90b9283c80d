package api

// MainMenu is the group used when a caller does not name one.
const MainMenu = "mainmenu"

// Record is one persisted property override.
type Record struct {
	Group    string `json:"group"`
	LabelID  string `json:"label_id"`
	Property string `json:"property"`
	// Value is nil when the property was explicitly unset.
	Value *string `json:"value"`
}

// NewRecord returns a record holding value.
func NewRecord(group, labelID, property, value string) Record {
	return Record{Group: group, LabelID: labelID, Property: property, Value: &value}
}

// Requirement states that Property is only kept while Requires is set on
// the same entry.
type Requirement struct {
	Property string `json:"property"`
	Requires string `json:"requires"`
}
