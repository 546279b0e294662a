package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wilbur182/paysheet/pkg/paysheet"
)

// fixture is the demo data file: an amount plus either sections or a
// method tree.
type fixture struct {
	Amount          any                    `yaml:"amount"`
	Sections        []paysheet.Section     `yaml:"sections"`
	Methods         []map[string]any       `yaml:"methods"`
	Mapping         *paysheet.FieldMapping `yaml:"mapping"`
	KeyboardMapping []string               `yaml:"keyboardMapping"`
}

// defaultFixture is shown when no -fixture is given.
const defaultFixture = `
amount: "128.00"
sections:
  - title: Pay with
    key: method
    required: true
    items:
      - {id: balance, name: Balance, desc: "¥1,024.00 available", icon: "¥"}
      - {id: card, name: Credit card, desc: ends 4242, icon: "▭"}
      - {id: bank, name: Bank transfer, icon: "⌂"}
  - title: Extras
    key: extras
    multiple: true
    items:
      - {id: insurance, name: Shipping insurance}
      - {id: gift, name: Gift wrap}
`

func loadFixture(path string) (*fixture, error) {
	data := []byte(defaultFixture)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// methods builds the method tree. A group record carrying loadDelay or
// loadError has its children served by a provider so deferred loading can
// be tried out.
func (f *fixture) methods() []paysheet.Method {
	recs := make([]paysheet.Record, 0, len(f.Methods))
	for _, m := range f.Methods {
		r := paysheet.Record(m)
		if p := fixtureProvider(r); p != nil {
			r = cloneWithout(r, "children", "loadDelay", "loadError")
			r["children"] = p
		}
		recs = append(recs, r)
	}
	return paysheet.ParseMethods(recs)
}

func fixtureProvider(r paysheet.Record) paysheet.Provider {
	delay, hasDelay := r["loadDelay"].(string)
	failure, hasErr := r["loadError"].(string)
	if !hasDelay && !hasErr {
		return nil
	}
	d, _ := time.ParseDuration(delay)
	children, _ := r["children"].([]any)

	return func(ctx context.Context) ([]paysheet.Record, error) {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if hasErr {
			return nil, errors.New(failure)
		}
		out := make([]paysheet.Record, 0, len(children))
		for _, c := range children {
			if m, ok := c.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, nil
	}
}

func cloneWithout(r paysheet.Record, drop ...string) paysheet.Record {
	out := make(paysheet.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}
