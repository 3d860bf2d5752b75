package svgconv

import "errors"

// Kind classifies the failures of the conversion functions.
type Kind uint8

const (
	_ Kind = iota
	InvalidInput
	ParseError
	SizeLimitExceeded
	RenderError
	IoError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case ParseError:
		return "parse error"
	case SizeLimitExceeded:
		return "size limit exceeded"
	case RenderError:
		return "render error"
	case IoError:
		return "i/o error"
	default:
		return "<unknown Kind>"
	}
}

// Error is the error type returned by this package.
// Its message is meant to be shown to end users.
type Error struct {
	Kind Kind
	Msg  string // optional when Err is set
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so that
// errors.Is(err, ErrParse) holds for every parse failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels to use with errors.Is
var (
	ErrInvalidInput = &Error{Kind: InvalidInput, Msg: InvalidInput.String()}
	ErrParse        = &Error{Kind: ParseError, Msg: ParseError.String()}
	ErrSizeLimit    = &Error{Kind: SizeLimitExceeded, Msg: SizeLimitExceeded.String()}
	ErrRender       = &Error{Kind: RenderError, Msg: RenderError.String()}
	ErrIO           = &Error{Kind: IoError, Msg: IoError.String()}
)

// KindOf returns the Kind of `err`, or 0 if it does not
// come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalidInput(msg string) error { return &Error{Kind: InvalidInput, Msg: msg} }

func parseError(err error) error { return &Error{Kind: ParseError, Err: err} }

func renderError(err error) error { return &Error{Kind: RenderError, Err: err} }

func ioError(err error) error { return &Error{Kind: IoError, Err: err} }
