package errs

// Kind classifies an expected failure. Only the handler layer turns it into a status code.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// Error is an expected business failure with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
	Kind    Kind
}

func Coded(code, message string, kind Kind) *Error {
	return &Error{Code: code, Message: message, Kind: kind}
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches any *Error with the same code, so copies made by WithMessage still
// satisfy errors.Is against the package-level sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Kind: e.Kind}
}

// AsCoded returns the outermost coded error in the chain.
func AsCoded(err error) (*Error, bool) {
	var coded *Error
	if As(err, &coded) {
		return coded, true
	}
	return nil, false
}

func CodeOf(err error) string {
	if coded, ok := AsCoded(err); ok {
		return coded.Code
	}
	return ""
}

func KindOf(err error) Kind {
	if coded, ok := AsCoded(err); ok {
		return coded.Kind
	}
	return KindInternal
}
