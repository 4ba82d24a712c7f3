package model

import "slices"

// Label is a character-offset annotation: [start, end, label].
// No bounds validation is performed; start may exceed end.
type Label struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// NewLabel builds a Label from a positional sequence of at least three
// elements. Extra elements are ignored.
func NewLabel(raw any) (*Label, error) {
	seq, err := sequenceOf(raw, 3)
	if err != nil {
		return nil, err
	}

	start, ok := intValue(seq[0])
	if !ok {
		return nil, wrongType("[0]", KindInteger, seq[0])
	}
	end, ok := intValue(seq[1])
	if !ok {
		return nil, wrongType("[1]", KindInteger, seq[1])
	}
	label, ok := seq[2].(string)
	if !ok {
		return nil, wrongType("[2]", KindString, seq[2])
	}

	return &Label{Start: start, End: end, Label: label}, nil
}

// MatchesShape reports whether raw is a sequence whose first three
// elements are integer, integer and string.
func (l *Label) MatchesShape(raw any) bool {
	return l.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode. In strict mode
// the sequence must hold exactly three elements.
func (l *Label) MatchesShapeMode(raw any, mode ShapeMode) bool {
	if l == nil {
		return false
	}
	seq, ok := asSequence(raw)
	if !ok || len(seq) < 3 {
		return false
	}
	if mode == ShapeStrict && len(seq) != 3 {
		return false
	}
	return KindOf(seq[0]) == KindInteger &&
		KindOf(seq[1]) == KindInteger &&
		KindOf(seq[2]) == KindString
}

// Equal reports value equality.
func (l *Label) Equal(other *Label) bool {
	if l == nil || other == nil {
		return l == other
	}
	return *l == *other
}

// DoccanoEntry is one annotated document in the Doccano schema.
type DoccanoEntry struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// NewDoccanoEntry builds an entry from a mapping with id, text and label.
func NewDoccanoEntry(raw any) (*DoccanoEntry, error) {
	m, err := mappingOf(raw)
	if err != nil {
		return nil, err
	}

	id, err := intField(m, "id")
	if err != nil {
		return nil, err
	}
	text, err := stringField(m, "text")
	if err != nil {
		return nil, err
	}
	rawLabel, err := field(m, "label")
	if err != nil {
		return nil, err
	}
	label, err := NewLabel(rawLabel)
	if err != nil {
		return nil, nestField("label", err)
	}

	return &DoccanoEntry{ID: id, Text: text, Label: *label}, nil
}

// MatchesShape reports whether raw is a mapping with an integer id, a
// string text and a label matching this entry's Label.
func (e *DoccanoEntry) MatchesShape(raw any) bool {
	return e.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode.
func (e *DoccanoEntry) MatchesShapeMode(raw any, mode ShapeMode) bool {
	if e == nil {
		return false
	}
	m, ok := asMapping(raw)
	if !ok {
		return false
	}
	rawLabel, ok := m["label"]
	if !ok {
		return false
	}
	return hasKind(m, "id", KindInteger) &&
		hasKind(m, "text", KindString) &&
		e.Label.MatchesShapeMode(rawLabel, mode)
}

// Equal reports value equality.
func (e *DoccanoEntry) Equal(other *DoccanoEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return *e == *other
}

// DoccanoDataset is an ordered collection of Doccano entries.
type DoccanoDataset struct {
	Entries []DoccanoEntry `json:"entries"`
}

// NewDoccanoDataset builds one entry per raw record, preserving order.
// The first malformed record aborts construction with a *RecordError.
func NewDoccanoDataset(raws []any) (*DoccanoDataset, error) {
	entries := make([]DoccanoEntry, 0, len(raws))
	for i, raw := range raws {
		entry, err := NewDoccanoEntry(raw)
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		entries = append(entries, *entry)
	}
	return &DoccanoDataset{Entries: entries}, nil
}

// MatchesShape reports whether raw is a sequence whose first element
// matches the first entry. Later elements are not inspected; use
// MatchesShapeMode with ShapeStrict to check every record.
func (d *DoccanoDataset) MatchesShape(raw any) bool {
	return d.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode.
func (d *DoccanoDataset) MatchesShapeMode(raw any, mode ShapeMode) bool {
	if d == nil {
		return false
	}
	return matchCollection(len(d.Entries), raw, mode, func(i int, r any) bool {
		return d.Entries[i].MatchesShapeMode(r, mode)
	})
}

// Equal reports value equality of all entries in order.
func (d *DoccanoDataset) Equal(other *DoccanoDataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	return slices.Equal(d.Entries, other.Entries)
}

// Len returns the number of entries.
func (d *DoccanoDataset) Len() int {
	return len(d.Entries)
}

// EntryMatcher returns the i-th entry as a ShapeMatcher.
func (d *DoccanoDataset) EntryMatcher(i int) ShapeMatcher {
	return &d.Entries[i]
}

// Schema returns SchemaDoccano.
func (d *DoccanoDataset) Schema() Schema {
	return SchemaDoccano
}
