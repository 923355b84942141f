package llmtool

import (
	"strconv"
	"strings"
)

// Record is one validated item of a step's collection. Values are normalized
// by kind: string, int, or []string.
type Record struct {
	Title  string
	fields map[string]any
}

// NewRecord builds a record from already-normalized values.
func NewRecord(title string, fields map[string]any) Record {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Record{Title: title, fields: cp}
}

// Has reports whether the model supplied field.
func (r Record) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// Text renders field as display text. Scores render as digits and lists are
// joined with ", ". Missing fields render empty.
func (r Record) Text(field string) string {
	if field == TitleField {
		return r.Title
	}
	switch v := r.fields[field].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case []string:
		return strings.Join(v, ", ")
	}
	return ""
}

// Score returns an integer field.
func (r Record) Score(field string) (int, bool) {
	v, ok := r.fields[field].(int)
	return v, ok
}

// List returns a list field.
func (r Record) List(field string) []string {
	v, _ := r.fields[field].([]string)
	return v
}

// Output is a validated step response.
type Output struct {
	Reasoning string
	Items     []Record
}

// Index maps titles to records. The first record wins when a title repeats.
func (o Output) Index() map[string]Record {
	idx := make(map[string]Record, len(o.Items))
	for _, it := range o.Items {
		if _, dup := idx[it.Title]; !dup {
			idx[it.Title] = it
		}
	}
	return idx
}
