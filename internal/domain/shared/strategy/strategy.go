// Package strategy carries the base plumbing for pluggable domain policies,
// currently the ledger's cost consumption strategies.
package strategy

// Strategy identifies a pluggable policy by name.
type Strategy interface {
	Name() string
	Description() string
}

// BaseStrategy holds the identifying metadata so concrete strategies only
// add their policy methods.
type BaseStrategy struct {
	name        string
	description string
}

// NewBaseStrategy creates the embedded base for a named strategy.
func NewBaseStrategy(name, description string) BaseStrategy {
	return BaseStrategy{name: name, description: description}
}

// Name returns the unique strategy name.
func (s BaseStrategy) Name() string { return s.name }

// Description returns the human-readable description.
func (s BaseStrategy) Description() string { return s.description }
