package ledgerapi

import (
	"fmt"
	"strings"
)

// Error kinds with stable codes, in the shape the front-ends consume.
const (
	codeInvalidArgument       = -32000
	codeInvalidTransaction    = -32001
	codeChainValidation       = -32002
	codeAuthenticationFailure = -32003
	codeServiceUnavailable    = -32004
)

// maxUserMessage bounds any message that reaches a user. Full detail goes to
// the log; the surfaced text is truncated and stripped of line structure so
// no stack trace or multi-line internals leak through.
const maxUserMessage = 500

// Error is a service-layer failure with a stable application code.
type Error struct {
	code    int
	message string
}

func (e *Error) Error() string  { return e.message }
func (e *Error) ErrorCode() int { return e.code }

// IsInvalidArgument reports whether err is an invalid-argument failure.
func IsInvalidArgument(err error) bool { return hasCode(err, codeInvalidArgument) }

// IsInvalidTransaction reports whether err is a transaction staging failure.
func IsInvalidTransaction(err error) bool { return hasCode(err, codeInvalidTransaction) }

// IsChainValidation reports whether err is a ledger integrity failure.
func IsChainValidation(err error) bool { return hasCode(err, codeChainValidation) }

// IsAuthenticationFailure reports whether err is a credentials failure.
func IsAuthenticationFailure(err error) bool { return hasCode(err, codeAuthenticationFailure) }

// IsServiceUnavailable reports whether err is a collaborator outage surfaced
// to the caller.
func IsServiceUnavailable(err error) bool { return hasCode(err, codeServiceUnavailable) }

func hasCode(err error, code int) bool {
	e, ok := err.(*Error)
	return ok && e.code == code
}

func newError(code int, format string, args ...interface{}) *Error {
	return &Error{code: code, message: sanitizeMessage(fmt.Sprintf(format, args...))}
}

// sanitizeMessage flattens line structure and truncates to the user-facing
// bound.
func sanitizeMessage(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if len(msg) > maxUserMessage {
		msg = msg[:maxUserMessage-3] + "..."
	}
	return msg
}
