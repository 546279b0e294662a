package keymap

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidKeyboardMapping is returned when a digit remap table does not
// have exactly DigitCount entries.
var ErrInvalidKeyboardMapping = errors.New("invalid keyboard mapping")

// DigitCount is the size of a digit remap table.
const DigitCount = 10

// DigitMap maps the ten digit keys to the characters they enter into the
// password buffer. Entry i is what pressing digit key i produces.
type DigitMap struct {
	table [DigitCount]string
}

// NewDigitMap returns the identity mapping.
func NewDigitMap() *DigitMap {
	m := &DigitMap{}
	m.reset()
	return m
}

func (m *DigitMap) reset() {
	for i := range m.table {
		m.table[i] = string(rune('0' + i))
	}
}

// SetMapping replaces the table. A nil mapping restores the identity table.
// Any other table must have exactly ten non-empty single-character entries;
// a rejected table leaves the current one in place.
func (m *DigitMap) SetMapping(mapping []string) error {
	if mapping == nil {
		m.reset()
		return nil
	}
	if len(mapping) != DigitCount {
		return fmt.Errorf("%w: want %d entries, got %d", ErrInvalidKeyboardMapping, DigitCount, len(mapping))
	}
	for i, v := range mapping {
		if utf8.RuneCountInString(v) != 1 {
			return fmt.Errorf("%w: entry %d is %q", ErrInvalidKeyboardMapping, i, v)
		}
	}
	copy(m.table[:], mapping)
	return nil
}

// Mapping returns a copy of the current table.
func (m *DigitMap) Mapping() []string {
	return append([]string(nil), m.table[:]...)
}

// Lookup returns the character entered by key, which must be a single
// ASCII digit.
func (m *DigitMap) Lookup(key string) (string, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return "", false
	}
	return m.table[key[0]-'0'], true
}
