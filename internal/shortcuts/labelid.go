package shortcuts

import "strconv"

// LabelIDs hands out unique entry identifiers within one menu scope.
// The zero value is ready to use.
type LabelIDs struct {
	used map[string]bool
}

// Allocate derives an id from label, or action when the label slugs to
// nothing. Repeats get -1, -2, ... appended.
func (l *LabelIDs) Allocate(label, action string) string {
	if l.used == nil {
		l.used = make(map[string]bool)
	}
	base := Slugify(label, false)
	if base == "" {
		base = Slugify(action, false)
	}
	if base == "" {
		base = "shortcut"
	}

	id := base
	for n := 1; l.used[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	l.used[id] = true
	return id
}
