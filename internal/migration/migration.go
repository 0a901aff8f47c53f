// Package migration collects the SQL statements and operator-facing
// notes that make up one unit of schema change; the Creation-Script
// Emitter uses it to hold each generated file's forward and rollback
// statements.
package migration

import (
	"strings"

	"dbscribe/internal/core"
)

// Migration is an ordered sequence of operations.
type Migration struct {
	Operations []core.Operation
}

// Plan returns the full operation sequence.
func (m *Migration) Plan() []core.Operation { return m.Operations }

// SQLStatements returns the forward SQL of every SQL operation, in
// order, skipping blanks.
func (m *Migration) SQLStatements() []string {
	return m.filterByKind(core.OperationSQL, func(op core.Operation) string { return op.SQL })
}

// RollbackStatements returns the reverse SQL of every SQL operation, in
// order, skipping blanks.
func (m *Migration) RollbackStatements() []string {
	return m.filterByKind(core.OperationSQL, func(op core.Operation) string { return op.RollbackSQL })
}

// BreakingNotes returns the message of every breaking-change operation.
func (m *Migration) BreakingNotes() []string {
	return m.filterByKind(core.OperationBreaking, func(op core.Operation) string { return op.SQL })
}

// UnresolvedNotes returns the reason for every operation the emitter
// could not translate into SQL.
func (m *Migration) UnresolvedNotes() []string {
	return m.filterByKind(core.OperationUnresolved, func(op core.Operation) string { return op.UnresolvedReason })
}

// InfoNotes returns the message of every informational operation.
func (m *Migration) InfoNotes() []string {
	return m.filterByKind(core.OperationNote, func(op core.Operation) string { return op.SQL })
}

// AddStatement appends a forward-only SQL operation. A blank statement
// is ignored.
func (m *Migration) AddStatement(stmt string) {
	if stmt = strings.TrimSpace(stmt); stmt == "" {
		return
	}
	m.Operations = append(m.Operations, core.Operation{Kind: core.OperationSQL, SQL: stmt})
}

// AddStatementWithRollback appends a forward/reverse SQL operation pair.
// Both sides are ignored only when both are blank.
func (m *Migration) AddStatementWithRollback(up, down string) {
	up = strings.TrimSpace(up)
	down = strings.TrimSpace(down)
	if up == "" && down == "" {
		return
	}
	m.Operations = append(m.Operations, core.Operation{Kind: core.OperationSQL, SQL: up, RollbackSQL: down})
}

// AddBreaking appends a breaking-change note. A blank message is
// ignored.
func (m *Migration) AddBreaking(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.Operations = append(m.Operations, core.Operation{Kind: core.OperationBreaking, SQL: msg, Risk: core.RiskBreaking})
}

// AddNote appends an informational note. A blank message is ignored.
func (m *Migration) AddNote(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.Operations = append(m.Operations, core.Operation{Kind: core.OperationNote, SQL: msg, Risk: core.RiskInfo})
}

// AddUnresolved appends a note describing a change the emitter could not
// turn into SQL. A blank reason is ignored.
func (m *Migration) AddUnresolved(reason string) {
	if reason = strings.TrimSpace(reason); reason == "" {
		return
	}
	m.Operations = append(m.Operations, core.Operation{Kind: core.OperationUnresolved, UnresolvedReason: reason})
}

func (m *Migration) filterByKind(kind core.OperationKind, fieldFn func(core.Operation) string) []string {
	out := make([]string, 0, len(m.Operations))
	for _, op := range m.Operations {
		if op.Kind != kind {
			continue
		}
		if val := strings.TrimSpace(fieldFn(op)); val != "" {
			out = append(out, val)
		}
	}
	return out
}
