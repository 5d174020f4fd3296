package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gzipSuffix marks files that are read and written gzip-compressed.
const gzipSuffix = ".gz"

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// gzipFile closes the compressor before the file underneath it.
type gzipFile struct {
	*gzip.Writer
	f *os.File
}

func (g gzipFile) Close() error {
	zerr := g.Writer.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// createOutput opens path for writing, or returns stdout for "" and "-".
// Paths ending in .gz are compressed.
func createOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if !strings.HasSuffix(path, gzipSuffix) {
		return f, nil
	}
	zw, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
	if err != nil {
		f.Close()
		return nil, err
	}
	return gzipFile{Writer: zw, f: f}, nil
}

type gzipReadFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipReadFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

// openInput opens path for reading, decompressing .gz files.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, gzipSuffix) {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gzipReadFile{Reader: zr, f: f}, nil
}

// writeJSON encodes v with two-space indentation to path (see createOutput).
func writeJSON(path string, stdout io.Writer, v any) error {
	w, err := createOutput(path, stdout)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	encErr := enc.Encode(v)
	closeErr := w.Close()
	if encErr != nil {
		return fmt.Errorf("writing %s: %w", outputName(path), encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("writing %s: %w", outputName(path), closeErr)
	}
	return nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
