package structured

import "fmt"

// Validation is the result of checking a document against a Schema.
type Validation struct {
	Extracted map[string]any
	Missing   []string
	Anomalies []string
}

// Validate projects doc onto s. Each missing required field is an anomaly.
// Invalid list items are reported and left out of the projection.
func Validate(s Schema, doc map[string]any) Validation {
	v := Validation{
		Extracted: make(map[string]any, len(s.Required)),
		Missing:   []string{},
		Anomalies: []string{},
	}

	for _, field := range s.Required {
		value, ok := doc[field]
		if !ok {
			v.Missing = append(v.Missing, field)
			v.Anomalies = append(v.Anomalies, fmt.Sprintf("Missing required field: %s", field))
			continue
		}
		v.Extracted[field] = value
	}

	if s.ListField == "" {
		return v
	}

	value, ok := v.Extracted[s.ListField]
	if !ok {
		return v
	}

	items, ok := value.([]any)
	if !ok {
		v.Anomalies = append(v.Anomalies, fmt.Sprintf("Field '%s' is not a list (got %s)", s.ListField, TypeName(value)))
		return v
	}

	valid := make([]any, 0, len(items))
	for i, item := range items {
		if problems := checkItem(s.Item, i+1, item); len(problems) > 0 {
			v.Anomalies = append(v.Anomalies, problems...)
			continue
		}
		valid = append(valid, item)
	}
	v.Extracted[s.ListField] = valid

	return v
}

func checkItem(fields []Field, n int, item any) []string {
	obj, ok := item.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("Item %d is not a valid object.", n)}
	}

	var problems []string
	for _, f := range fields {
		value, ok := obj[f.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("Item %d missing field: %s", n, f.Name))
			continue
		}
		if !f.Kind.Matches(value) {
			problems = append(problems, fmt.Sprintf(
				"Item %d field '%s' has incorrect type (expected %s, got %s)",
				n, f.Name, f.Kind, TypeName(value),
			))
		}
	}
	return problems
}
