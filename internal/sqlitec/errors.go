package sqlitec

import (
	"fmt"

	"github.com/orsinium-labs/enum"
)

// fallbackErrMsg is used when the engine has no diagnostic to report.
const fallbackErrMsg = "No error message provided from sqlite."

// ErrorKind identifies which call of the C API failed.
type ErrorKind enum.Member[string]

var (
	ErrorKindOpen     = ErrorKind{Value: "open"}
	ErrorKindPrepare  = ErrorKind{Value: "prepare"}
	ErrorKindBind     = ErrorKind{Value: "bind"}
	ErrorKindStep     = ErrorKind{Value: "step"}
	ErrorKindExec     = ErrorKind{Value: "exec"}
	ErrorKindFinalize = ErrorKind{Value: "finalize"}
	ErrorKindClose    = ErrorKind{Value: "close"}

	ErrorKinds = enum.New(
		ErrorKindOpen,
		ErrorKindPrepare,
		ErrorKindBind,
		ErrorKindStep,
		ErrorKindExec,
		ErrorKindFinalize,
		ErrorKindClose,
	)
)

var errorKindActions = map[ErrorKind]string{
	ErrorKindOpen:     "open database",
	ErrorKindPrepare:  "prepare statement",
	ErrorKindBind:     "bind parameter",
	ErrorKindStep:     "step statement",
	ErrorKindExec:     "execute query",
	ErrorKindFinalize: "finalize statement",
	ErrorKindClose:    "close database",
}

// Error is the failure of a single C API call. Kind tells which call failed,
// Code is the result code it returned and Message is the engine's diagnostic.
type Error struct {
	Kind    ErrorKind
	Code    ResultCode
	Message string
}

// Sentinels to be used with errors.Is. The kind sentinels match any error of
// that kind, the code sentinels match any error with that primary code.
var (
	ErrOpen     = &Error{Kind: ErrorKindOpen}
	ErrPrepare  = &Error{Kind: ErrorKindPrepare}
	ErrBind     = &Error{Kind: ErrorKindBind}
	ErrStep     = &Error{Kind: ErrorKindStep}
	ErrExec     = &Error{Kind: ErrorKindExec}
	ErrFinalize = &Error{Kind: ErrorKindFinalize}
	ErrClose    = &Error{Kind: ErrorKindClose}

	ErrCantOpen   = &Error{Code: SQLITE_CANTOPEN}
	ErrConstraint = &Error{Code: SQLITE_CONSTRAINT}
	ErrMisuse     = &Error{Code: SQLITE_MISUSE}
	ErrRange      = &Error{Code: SQLITE_RANGE}
	ErrBusy       = &Error{Code: SQLITE_BUSY}
)

func newError(kind ErrorKind, code ResultCode, msg string) *Error {
	if msg == "" {
		msg = fallbackErrMsg
	}
	return &Error{Kind: kind, Code: code, Message: msg}
}

// misuse builds the error for a call made out of lifecycle order.
func misuse(kind ErrorKind, msg string) *Error {
	return newError(kind, SQLITE_MISUSE, msg)
}

func (e *Error) Error() string {
	action, ok := errorKindActions[e.Kind]
	if !ok {
		action = "call sqlite"
	}
	return fmt.Sprintf("failed to %s: %s: %s", action, getResCodeStr(e.Code), e.Message)
}

// Is reports whether target is a sentinel matching this error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind.Value != "" && t.Kind != e.Kind {
		return false
	}
	if t.Code != SQLITE_OK && t.Code.Primary() != e.Code.Primary() {
		return false
	}
	return t.Kind.Value != "" || t.Code != SQLITE_OK
}
