package core

// OperationKind identifies what kind of entry a Migration operation
// represents: an executable statement, or an informational note of some
// severity surfaced to the operator instead of run against a database.
type OperationKind string

const (
	OperationSQL        OperationKind = "SQL"
	OperationNote       OperationKind = "NOTE"
	OperationBreaking   OperationKind = "BREAKING"
	OperationUnresolved OperationKind = "UNRESOLVED"
)

// OperationRisk classifies how dangerous an operation is to apply.
type OperationRisk string

const (
	RiskInfo     OperationRisk = "INFO"
	RiskWarning  OperationRisk = "WARNING"
	RiskBreaking OperationRisk = "BREAKING"
	RiskCritical OperationRisk = "CRITICAL"
)

// Operation is one entry in a Migration: either a forward/rollback SQL
// statement pair, or a note the emitter could not turn into SQL.
type Operation struct {
	Kind OperationKind `json:"kind"`

	SQL         string `json:"sql,omitempty"`
	RollbackSQL string `json:"rollbackSql,omitempty"`

	Risk OperationRisk `json:"risk,omitempty"`

	UnresolvedReason string `json:"unresolvedReason,omitempty"`
}
