package selection

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Record is a loose key/value record supplied by the host for one choosable
// entity. Fields are looked up by name through a FieldMapping.
type Record map[string]any

// FieldMapping names the record fields that hold each display attribute.
// Empty names fall back to the defaults listed in the Fallback vars.
type FieldMapping struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Fallback field chains tried after the configured name.
var (
	TitleFallbacks    = []string{"name", "title", "label"}
	SubtitleFallbacks = []string{"desc", "subtitle", "description"}
	IconFallbacks     = []string{"icon"}
	ValueFallbacks    = []string{"id", "value", "key"}
)

// ResolveField returns the first present, non-nil field among configured and
// fallbacks.
func ResolveField(r Record, configured string, fallbacks ...string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if configured != "" {
		if v, ok := r[configured]; ok && v != nil {
			return v, true
		}
	}
	for _, name := range fallbacks {
		if name == "" || name == configured {
			continue
		}
		if v, ok := r[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func resolveString(r Record, configured string, fallbacks []string) string {
	v, ok := ResolveField(r, configured, fallbacks...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

// TitleOf resolves the display title of r.
func (m FieldMapping) TitleOf(r Record) string {
	return resolveString(r, m.Title, TitleFallbacks)
}

// SubtitleOf resolves the optional subtitle of r.
func (m FieldMapping) SubtitleOf(r Record) string {
	return resolveString(r, m.Subtitle, SubtitleFallbacks)
}

// ValueOf resolves the identity of r. Records without a value field use
// their title as identity.
func (m FieldMapping) ValueOf(r Record) any {
	if v, ok := ResolveField(r, m.Value, ValueFallbacks...); ok {
		return v
	}
	return m.TitleOf(r)
}

// IconKind classifies an item icon.
type IconKind int

const (
	IconNone IconKind = iota
	IconURL
	IconText
)

// maxIconTextWidth is the cell width of a text icon.
const maxIconTextWidth = 2

// Icon is a resolved item icon.
type Icon struct {
	Kind  IconKind
	Value string
}

// IconOf resolves and classifies the icon of r.
func (m FieldMapping) IconOf(r Record) Icon {
	s := strings.TrimSpace(resolveString(r, m.Icon, IconFallbacks))
	if s == "" {
		return Icon{}
	}
	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://", "data:", "//"} {
		if strings.HasPrefix(lower, prefix) {
			return Icon{Kind: IconURL, Value: s}
		}
	}
	return Icon{Kind: IconText, Value: runewidth.Truncate(s, maxIconTextWidth, "")}
}
