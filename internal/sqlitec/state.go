package sqlitec

import "github.com/orsinium-labs/enum"

// ConnState is the lifecycle state of a Conn:
// unopened -> open -> closed.
type ConnState enum.Member[string]

var (
	ConnStateUnopened = ConnState{Value: "unopened"}
	ConnStateOpen     = ConnState{Value: "open"}
	ConnStateClosed   = ConnState{Value: "closed"}

	ConnStates = enum.New(ConnStateUnopened, ConnStateOpen, ConnStateClosed)
)

// StmtState is the lifecycle state of a Stmt:
// prepared -> bound -> stepping -> done -> finalized.
//
// Reset moves a stepped statement back to bound (or prepared when nothing
// was bound). A step that fails leaves the statement in failed until it is
// reset or finalized.
type StmtState enum.Member[string]

var (
	StmtStatePrepared  = StmtState{Value: "prepared"}
	StmtStateBound     = StmtState{Value: "bound"}
	StmtStateStepping  = StmtState{Value: "stepping"}
	StmtStateDone      = StmtState{Value: "done"}
	StmtStateFailed    = StmtState{Value: "failed"}
	StmtStateFinalized = StmtState{Value: "finalized"}

	StmtStates = enum.New(
		StmtStatePrepared,
		StmtStateBound,
		StmtStateStepping,
		StmtStateDone,
		StmtStateFailed,
		StmtStateFinalized,
	)
)

// canBind reports whether parameters may be bound in this state.
func (s StmtState) canBind() bool {
	return s == StmtStatePrepared || s == StmtStateBound
}

// canStep reports whether the statement may be advanced in this state.
func (s StmtState) canStep() bool {
	return s == StmtStatePrepared || s == StmtStateBound || s == StmtStateStepping
}
