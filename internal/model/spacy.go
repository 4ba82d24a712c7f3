package model

import "slices"

// Token is one tokenized unit of a Spacy entry.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	ID    int    `json:"id"`
}

// NewToken builds a Token from a mapping with text, start, end and id.
func NewToken(raw any) (*Token, error) {
	m, err := mappingOf(raw)
	if err != nil {
		return nil, err
	}

	var t Token
	if t.Text, err = stringField(m, "text"); err != nil {
		return nil, err
	}
	if t.Start, err = intField(m, "start"); err != nil {
		return nil, err
	}
	if t.End, err = intField(m, "end"); err != nil {
		return nil, err
	}
	if t.ID, err = intField(m, "id"); err != nil {
		return nil, err
	}
	return &t, nil
}

// MatchesShape reports whether raw is a mapping holding all four token
// fields with the stored kinds. Values are not compared: a token for
// "Bob" matches a raw token for "Alice".
func (t *Token) MatchesShape(raw any) bool {
	return t.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode. Tokens hold no
// collections, so both modes behave alike.
func (t *Token) MatchesShapeMode(raw any, _ ShapeMode) bool {
	if t == nil {
		return false
	}
	m, ok := asMapping(raw)
	if !ok {
		return false
	}
	return hasKind(m, "text", KindString) &&
		hasKind(m, "start", KindInteger) &&
		hasKind(m, "end", KindInteger) &&
		hasKind(m, "id", KindInteger)
}

// Equal reports value equality.
func (t *Token) Equal(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return *t == *other
}

// Span is an annotation aligned to token indices.
type Span struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	TokenStart int    `json:"token_start"`
	TokenEnd   int    `json:"token_end"`
	Label      string `json:"label"`
}

// NewSpan builds a Span from a mapping with start, end, token_start,
// token_end and label.
func NewSpan(raw any) (*Span, error) {
	m, err := mappingOf(raw)
	if err != nil {
		return nil, err
	}

	var s Span
	if s.Start, err = intField(m, "start"); err != nil {
		return nil, err
	}
	if s.End, err = intField(m, "end"); err != nil {
		return nil, err
	}
	if s.TokenStart, err = intField(m, "token_start"); err != nil {
		return nil, err
	}
	if s.TokenEnd, err = intField(m, "token_end"); err != nil {
		return nil, err
	}
	if s.Label, err = stringField(m, "label"); err != nil {
		return nil, err
	}
	return &s, nil
}

// MatchesShape reports whether raw is a mapping holding all five span
// fields with the stored kinds.
func (s *Span) MatchesShape(raw any) bool {
	return s.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode.
func (s *Span) MatchesShapeMode(raw any, _ ShapeMode) bool {
	if s == nil {
		return false
	}
	m, ok := asMapping(raw)
	if !ok {
		return false
	}
	return hasKind(m, "start", KindInteger) &&
		hasKind(m, "end", KindInteger) &&
		hasKind(m, "token_start", KindInteger) &&
		hasKind(m, "token_end", KindInteger) &&
		hasKind(m, "label", KindString)
}

// Equal reports value equality.
func (s *Span) Equal(other *Span) bool {
	if s == nil || other == nil {
		return s == other
	}
	return *s == *other
}

// SpacyEntry is one tokenized and annotated document in the Spacy schema.
type SpacyEntry struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
	Spans  []Span  `json:"spans"`
}

// NewSpacyEntry builds an entry from a mapping with text, tokens and
// spans. Token and span order is preserved.
func NewSpacyEntry(raw any) (*SpacyEntry, error) {
	m, err := mappingOf(raw)
	if err != nil {
		return nil, err
	}

	text, err := stringField(m, "text")
	if err != nil {
		return nil, err
	}
	rawTokens, err := sequenceField(m, "tokens")
	if err != nil {
		return nil, err
	}
	rawSpans, err := sequenceField(m, "spans")
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(rawTokens))
	for i, rt := range rawTokens {
		tok, err := NewToken(rt)
		if err != nil {
			return nil, nestField(indexedField("tokens", i), err)
		}
		tokens = append(tokens, *tok)
	}

	spans := make([]Span, 0, len(rawSpans))
	for i, rs := range rawSpans {
		span, err := NewSpan(rs)
		if err != nil {
			return nil, nestField(indexedField("spans", i), err)
		}
		spans = append(spans, *span)
	}

	return &SpacyEntry{Text: text, Tokens: tokens, Spans: spans}, nil
}

// MatchesShape reports whether raw is a mapping with a string text and
// tokens and spans sequences whose first elements match this entry's
// first token and first span. An entry without tokens or spans never
// matches in this mode; see ShapeStrict.
func (e *SpacyEntry) MatchesShape(raw any) bool {
	return e.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode.
func (e *SpacyEntry) MatchesShapeMode(raw any, mode ShapeMode) bool {
	if e == nil {
		return false
	}
	m, ok := asMapping(raw)
	if !ok || !hasKind(m, "text", KindString) {
		return false
	}
	tokensMatch := matchCollection(len(e.Tokens), m["tokens"], mode, func(i int, r any) bool {
		return e.Tokens[i].MatchesShapeMode(r, mode)
	})
	if !tokensMatch {
		return false
	}
	return matchCollection(len(e.Spans), m["spans"], mode, func(i int, r any) bool {
		return e.Spans[i].MatchesShapeMode(r, mode)
	})
}

// Equal reports value equality including every token and span.
func (e *SpacyEntry) Equal(other *SpacyEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Text == other.Text &&
		slices.Equal(e.Tokens, other.Tokens) &&
		slices.Equal(e.Spans, other.Spans)
}

// SpacyDataset is an ordered collection of Spacy entries.
type SpacyDataset struct {
	Entries []SpacyEntry `json:"entries"`
}

// NewSpacyDataset builds one entry per raw record, preserving order.
// The first malformed record aborts construction with a *RecordError.
func NewSpacyDataset(raws []any) (*SpacyDataset, error) {
	entries := make([]SpacyEntry, 0, len(raws))
	for i, raw := range raws {
		entry, err := NewSpacyEntry(raw)
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		entries = append(entries, *entry)
	}
	return &SpacyDataset{Entries: entries}, nil
}

// MatchesShape reports whether raw is a sequence whose first element
// matches the first entry. Later elements are not inspected.
func (d *SpacyDataset) MatchesShape(raw any) bool {
	return d.MatchesShapeMode(raw, ShapeLegacy)
}

// MatchesShapeMode is MatchesShape with an explicit mode.
func (d *SpacyDataset) MatchesShapeMode(raw any, mode ShapeMode) bool {
	if d == nil {
		return false
	}
	return matchCollection(len(d.Entries), raw, mode, func(i int, r any) bool {
		return d.Entries[i].MatchesShapeMode(r, mode)
	})
}

// Equal reports value equality of all entries in order.
func (d *SpacyDataset) Equal(other *SpacyDataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	return slices.EqualFunc(d.Entries, other.Entries, func(a, b SpacyEntry) bool {
		return a.Equal(&b)
	})
}

// Len returns the number of entries.
func (d *SpacyDataset) Len() int {
	return len(d.Entries)
}

// EntryMatcher returns the i-th entry as a ShapeMatcher.
func (d *SpacyDataset) EntryMatcher(i int) ShapeMatcher {
	return &d.Entries[i]
}

// Schema returns SchemaSpacy.
func (d *SpacyDataset) Schema() Schema {
	return SchemaSpacy
}
