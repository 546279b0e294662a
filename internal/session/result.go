package session

import (
	"github.com/wilbur182/paysheet/internal/amount"
	"github.com/wilbur182/paysheet/internal/selection"
)

// Result is the confirm payload.
type Result struct {
	// Selections maps each section key with a selection to its value, or to
	// a []any of values for multi-select sections.
	Selections map[string]any `json:"selections"`
	Amount     amount.Amount  `json:"amount"`
	Password   string         `json:"password,omitempty"`
	// HasPassword distinguishes an empty password from none.
	HasPassword bool `json:"-"`

	// Method and MethodValue are the first selected record and its value,
	// kept for hosts written against the tree API.
	Method      selection.Record `json:"selectedMethod,omitempty"`
	MethodValue any              `json:"selectedValue,omitempty"`
}

func (c *Controller) buildResult(password string, hasPassword bool) Result {
	m := c.store.Mapping()
	res := Result{
		Selections:  make(map[string]any),
		Amount:      c.amount,
		Password:    password,
		HasPassword: hasPassword,
	}
	for _, sel := range c.store.Selections() {
		if sel.Multiple {
			values := make([]any, 0, len(sel.Items))
			for _, r := range sel.Items {
				values = append(values, m.ValueOf(r))
			}
			res.Selections[sel.Key] = values
			continue
		}
		res.Selections[sel.Key] = m.ValueOf(sel.Items[0])
	}
	if r, ok := c.store.SelectedMethod(); ok {
		res.Method = r
		res.MethodValue = m.ValueOf(r)
	}
	return res
}
