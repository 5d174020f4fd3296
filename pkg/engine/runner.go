// Package engine drives the external tms-engine simulator.
//
// The engine is an opaque executable: it reads one JSON Request on stdin and,
// on success, writes one JSON response document on stdout and exits 0. On
// failure it writes diagnostics to stderr and exits nonzero. A Runner hides how
// the engine is reached so the request-building layer does not care whether it
// is a subprocess, an in-process double or something else.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// waitDelay bounds how long a killed engine's output pipes are drained.
const waitDelay = 5 * time.Second

// Runner accepts a JSON-encoded Request and returns the engine's JSON-encoded
// response, or a structured failure.
type Runner interface {
	RunJSON(ctx context.Context, input []byte) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, input []byte) ([]byte, error)

func (f RunnerFunc) RunJSON(ctx context.Context, input []byte) ([]byte, error) {
	return f(ctx, input)
}

// Subprocess runs the engine binary once per call. It holds no per-call state
// and is safe for concurrent use; each call spawns its own process.
type Subprocess struct {
	resolver *Resolver
	logger   logrus.FieldLogger
}

// NewSubprocess returns a Runner that executes the binary found by resolver.
// A nil resolver resolves for the running platform; a nil logger uses the
// logrus standard logger.
func NewSubprocess(resolver *Resolver, logger logrus.FieldLogger) *Subprocess {
	if resolver == nil {
		resolver = &Resolver{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Subprocess{resolver: resolver, logger: logger.WithField("component", "engine")}
}

// RunJSON resolves the binary, makes sure it is executable, writes input to its
// stdin and blocks until it exits. Stdout is returned only for exit code 0.
// Cancelling ctx kills the process.
func (s *Subprocess) RunJSON(ctx context.Context, input []byte) ([]byte, error) {
	path, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	if err := ensureExecutable(path); err != nil {
		s.logger.WithError(err).WithField("path", path).Debug("could not set execute permission")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	s.logger.WithFields(logrus.Fields{"path": path, "input_bytes": len(input)}).Debug("starting engine")
	start := time.Now()
	err = cmd.Run()
	s.logger.WithFields(logrus.Fields{
		"path":         path,
		"exit_code":    cmd.ProcessState.ExitCode(),
		"duration":     time.Since(start),
		"output_bytes": stdout.Len(),
	}).Debug("engine finished")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("running %s: %w", path, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExecError{Path: path, ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
		}
		return nil, fmt.Errorf("starting %s: %w", path, err)
	}
	return stdout.Bytes(), nil
}

// ensureExecutable sets the execute bits on path if none are set.
func ensureExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o111 != 0 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|0o111)
}

// Run marshals req, hands it to r and decodes the response document.
func Run(ctx context.Context, r Runner, req *Request) (Document, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	out, err := r.RunJSON(ctx, input)
	if err != nil {
		return nil, err
	}
	return Decode(out)
}

// Decode parses engine output into a Document.
func Decode(out []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, &DecodeError{Err: err, Output: out}
	}
	if doc == nil {
		return nil, &DecodeError{Err: errors.New("response is not a JSON object"), Output: out}
	}
	return doc, nil
}
