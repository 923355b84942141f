package llmtool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode validates raw against schema. Any violation rejects the whole
// response; there are no partial results.
func Decode(raw json.RawMessage, schema Schema) (Output, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return Output{}, fmt.Errorf("response is not a JSON object")
	}

	var out Output
	reasoning, ok := top[ReasoningField]
	if !ok || isNull(reasoning) {
		return Output{}, fmt.Errorf("missing %q", ReasoningField)
	}
	if err := json.Unmarshal(reasoning, &out.Reasoning); err != nil {
		return Output{}, fmt.Errorf("%q is not a string", ReasoningField)
	}

	coll, ok := top[schema.Collection]
	if !ok || isNull(coll) {
		return Output{}, fmt.Errorf("missing %q", schema.Collection)
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(coll, &items); err != nil {
		return Output{}, fmt.Errorf("%q is not an array of objects", schema.Collection)
	}

	out.Items = make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item, schema)
		if err != nil {
			return Output{}, fmt.Errorf("%s[%d]: %w", schema.Collection, i, err)
		}
		out.Items = append(out.Items, rec)
	}
	return out, nil
}

func decodeRecord(item map[string]json.RawMessage, schema Schema) (Record, error) {
	if item == nil {
		return Record{}, fmt.Errorf("item is null")
	}
	var title string
	if err := json.Unmarshal(item[TitleField], &title); err != nil || strings.TrimSpace(title) == "" {
		return Record{}, fmt.Errorf("missing %q", TitleField)
	}
	rec := Record{Title: strings.TrimSpace(title), fields: make(map[string]any, len(schema.Fields))}
	for _, f := range schema.Fields {
		v, ok := item[f.Name]
		if !ok || isNull(v) {
			if f.Required {
				return Record{}, fmt.Errorf("%q: missing required field %q", rec.Title, f.Name)
			}
			continue
		}
		val, err := decodeValue(v, f.Kind)
		if err != nil {
			return Record{}, fmt.Errorf("%q: field %q: %w", rec.Title, f.Name, err)
		}
		rec.fields[f.Name] = val
	}
	return rec, nil
}

func decodeValue(raw json.RawMessage, kind Kind) (any, error) {
	switch kind {
	case Score:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			// Some models quote numbers.
			var s string
			if json.Unmarshal(raw, &s) != nil {
				return nil, fmt.Errorf("not a number")
			}
			if n, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return nil, fmt.Errorf("not a number")
			}
		}
		score := int(math.Round(n))
		if score < MinScore || score > MaxScore {
			return nil, fmt.Errorf("score %v out of range [%d,%d]", n, MinScore, MaxScore)
		}
		return score, nil
	case StringList:
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("not a list of strings")
		}
		return []string{s}, nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("not a string")
		}
		return s, nil
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
