package selection

import "strconv"

// Section is an ordered group of items with its own select mode.
type Section struct {
	Title        string   `json:"title" yaml:"title"`
	Key          string   `json:"key,omitempty" yaml:"key,omitempty"`
	Multiple     bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Required     bool     `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Items        []Record `json:"items" yaml:"items"`
}

// ResultKey is the key a section's selection is reported under: its
// external key, or its ordinal index.
func (s Section) ResultKey(index int) string {
	if s.Key != "" {
		return s.Key
	}
	return strconv.Itoa(index)
}

// indexOf finds the item whose resolved value equals value.
func (s Section) indexOf(m FieldMapping, value any) int {
	for i, item := range s.Items {
		if SameValue(m.ValueOf(item), value) {
			return i
		}
	}
	return -1
}

// initialSelection is the pre-selection applied when sections are set.
// Single-select picks the default value, else the first item. Multi-select
// picks every item listed in a slice default.
func (s Section) initialSelection(m FieldMapping) []Record {
	if len(s.Items) == 0 {
		return nil
	}
	if !s.Multiple {
		if s.DefaultValue != nil {
			if i := s.indexOf(m, s.DefaultValue); i >= 0 {
				return []Record{s.Items[i]}
			}
		}
		return []Record{s.Items[0]}
	}

	var defaults []any
	switch d := s.DefaultValue.(type) {
	case nil:
		return nil
	case []any:
		defaults = d
	default:
		defaults = []any{d}
	}
	var picked []Record
	for _, item := range s.Items {
		v := m.ValueOf(item)
		for _, d := range defaults {
			if SameValue(v, d) {
				picked = append(picked, item)
				break
			}
		}
	}
	return picked
}

// SectionSelection is the current selection of one section.
type SectionSelection struct {
	Index    int
	Key      string
	Multiple bool
	Items    []Record
}
