package bankadapter

import (
	"fmt"

	"github.com/dvloznov/statement-importer/internal/spreadsheet"
)

// Registry is an ordered list of adapters resolved first-match.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the given adapters, in order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Default returns the registry of every supported bank.
func Default() *Registry {
	return NewRegistry(NewFalabella(), NewSantander())
}

// Register appends an adapter. It panics if the bank name is already taken.
func (r *Registry) Register(a Adapter) {
	for _, existing := range r.adapters {
		if existing.BankName() == a.BankName() {
			panic(fmt.Sprintf("bankadapter: adapter for %q already registered", a.BankName()))
		}
	}
	r.adapters = append(r.adapters, a)
}

// Resolve returns the first adapter that detects the sheet, or nil.
func (r *Registry) Resolve(sheet *spreadsheet.Sheet) Adapter {
	for _, a := range r.adapters {
		if safeDetect(a, sheet) {
			return a
		}
	}
	return nil
}

// Adapters returns the registered adapters in order.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// BankNames lists the supported banks in registration order.
func (r *Registry) BankNames() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.BankName()
	}
	return names
}

func safeDetect(a Adapter, sheet *spreadsheet.Sheet) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return a.Detect(sheet)
}
