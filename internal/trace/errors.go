package trace

import "github.com/cockroachdb/errors"

var (
	// ErrSyntax marks a malformed trace line.
	ErrSyntax = errors.New("trace: syntax error")
	// ErrHeader marks a header that disagrees with the ops that follow it.
	ErrHeader = errors.New("trace: header mismatch")
)

func syntaxErr(line int, format string, args ...any) error {
	return errors.Mark(errors.Newf("trace: line %d: "+format, append([]any{line}, args...)...), ErrSyntax)
}
