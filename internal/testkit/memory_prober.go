package testkit

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRowProber is an in-memory RowProber. Rows are keyed by the string
// rendering of their values, which matches how probes compare mapped
// values in tests.
type MemoryRowProber struct {
	mu      sync.Mutex
	columns map[string]map[string]bool   // table -> columns
	aliases map[string]map[string]string // table -> alias -> column
	rows    map[string]map[string]map[string]bool

	// ProbeCount counts RowExists calls, for query-count assertions
	ProbeCount int
}

// NewMemoryRowProber creates an empty prober
func NewMemoryRowProber() *MemoryRowProber {
	return &MemoryRowProber{
		columns: make(map[string]map[string]bool),
		aliases: make(map[string]map[string]string),
		rows:    make(map[string]map[string]map[string]bool),
	}
}

// AddColumn registers a physical column for a table
func (p *MemoryRowProber) AddColumn(table, column string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.columns[table] == nil {
		p.columns[table] = make(map[string]bool)
	}
	p.columns[table][column] = true
}

// AddAlias registers an attribute alias for a table column
func (p *MemoryRowProber) AddAlias(table, alias, column string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.aliases[table] == nil {
		p.aliases[table] = make(map[string]string)
	}
	p.aliases[table][alias] = column
}

// AddRow records a stored value for a table column
func (p *MemoryRowProber) AddRow(table, column string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.columns[table] == nil {
		p.columns[table] = make(map[string]bool)
	}
	p.columns[table][column] = true
	if p.rows[table] == nil {
		p.rows[table] = make(map[string]map[string]bool)
	}
	if p.rows[table][column] == nil {
		p.rows[table][column] = make(map[string]bool)
	}
	p.rows[table][column][fmt.Sprint(value)] = true
}

// SeedRun stores the contiguous values 1..n for a table column
func (p *MemoryRowProber) SeedRun(table, column string, n int64) {
	for i := int64(1); i <= n; i++ {
		p.AddRow(table, column, i)
	}
}

// ResetProbeCount zeroes the RowExists counter
func (p *MemoryRowProber) ResetProbeCount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ProbeCount = 0
}

// ColumnExists implements ports.RowProber
func (p *MemoryRowProber) ColumnExists(ctx context.Context, entityType, attribute string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.columns[entityType][p.resolveLocked(entityType, attribute)]
	return ok, nil
}

// RowExists implements ports.RowProber
func (p *MemoryRowProber) RowExists(ctx context.Context, entityType, attribute string, value any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ProbeCount++
	column := p.resolveLocked(entityType, attribute)
	return p.rows[entityType][column][fmt.Sprint(value)], nil
}

// MaxValue implements ports.RowProber
func (p *MemoryRowProber) MaxValue(ctx context.Context, entityType, attribute string, limit int64) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	column := p.resolveLocked(entityType, attribute)
	var max int64
	for raw := range p.rows[entityType][column] {
		var v int64
		if _, err := fmt.Sscan(raw, &v); err != nil {
			continue
		}
		if v > max && v <= limit {
			max = v
		}
	}
	return max, nil
}

func (p *MemoryRowProber) resolveLocked(table, attribute string) string {
	if column, ok := p.aliases[table][attribute]; ok {
		return column
	}
	return attribute
}
