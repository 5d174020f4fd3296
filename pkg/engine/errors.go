package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBinaryNotFound is matched by every BinaryNotFoundError.
var ErrBinaryNotFound = errors.New("tms-engine binary not found")

// BinaryNotFoundError reports that neither the bundled nor the PATH engine binary resolved.
type BinaryNotFoundError struct {
	Name     string   // platform binary name that was looked for
	Searched []string // locations checked, in order
}

func (e *BinaryNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(ErrBinaryNotFound.Error())
	if len(e.Searched) > 0 {
		fmt.Fprintf(&b, " (searched: %s)", strings.Join(e.Searched, ", "))
	}
	b.WriteString(". For development, build it from the tms-engine repository and add it to PATH:\n")
	fmt.Fprintf(&b, "  make cli && export PATH=$PATH:$(pwd)/dist\n")
	fmt.Fprintf(&b, "Or install %s next to this executable (or in its bin/ directory).", e.Name)
	return b.String()
}

func (e *BinaryNotFoundError) Is(target error) bool { return target == ErrBinaryNotFound }

// ExecError reports an engine process that exited with a nonzero status.
type ExecError struct {
	Path     string
	ExitCode int
	Stderr   string // trimmed of surrounding whitespace
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("tms-engine exited with code %d:\n%s", e.ExitCode, e.Stderr)
}

// DecodeError reports engine output that is not a JSON object, although the
// process itself exited successfully.
type DecodeError struct {
	Err    error
	Output []byte
}

const decodeSnippetLen = 200

func (e *DecodeError) Error() string {
	snippet := string(e.Output)
	if len(snippet) > decodeSnippetLen {
		snippet = snippet[:decodeSnippetLen] + "..."
	}
	return fmt.Sprintf("decoding tms-engine output: %v (output: %q)", e.Err, snippet)
}

func (e *DecodeError) Unwrap() error { return e.Err }
