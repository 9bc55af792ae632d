package services

// ErrorKind classifies service failures so handlers can pick an HTTP status
// without inspecting message strings.
type ErrorKind int

const (
	// KindNotFound means an entity is absent.
	KindNotFound ErrorKind = iota
	// KindForbidden covers ownership, role and assignment failures.
	KindForbidden
	// KindInvalidState means the request is well-formed but illegal now:
	// attempt already submitted, deadline passed, quiz inactive.
	KindInvalidState
	// KindValidation means the request payload itself is unacceptable.
	KindValidation
	// KindConfiguration means the stored data is self-inconsistent, e.g. a
	// live session without timing fields. A bug upstream, not a client error.
	KindConfiguration
	// KindInternal is everything unexpected, usually a database error.
	KindInternal
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errNotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func errForbidden(msg string) *Error     { return &Error{Kind: KindForbidden, Message: msg} }
func errInvalidState(msg string) *Error  { return &Error{Kind: KindInvalidState, Message: msg} }
func errValidation(msg string) *Error    { return &Error{Kind: KindValidation, Message: msg} }
func errConfiguration(msg string) *Error { return &Error{Kind: KindConfiguration, Message: msg} }

func errInternal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error()}
}
