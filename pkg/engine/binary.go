package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// BinaryBaseName is the engine executable name honoured on PATH.
const BinaryBaseName = "tms-engine"

// platformOS maps reported operating systems to the names used in bundled binaries.
// Anything else falls back to linux.
var platformOS = map[string]string{
	"windows": "windows",
	"darwin":  "darwin",
	"linux":   "linux",
}

// platformArch maps reported machine architectures to bundled binary names.
// Anything else falls back to amd64.
var platformArch = map[string]string{
	"arm64":   "arm64",
	"aarch64": "arm64",
}

// BinaryName returns the bundled engine filename for an operating system and
// machine architecture. Both Go (runtime.GOOS/GOARCH) and uname-style values are
// accepted, case-insensitively: ("linux", "x86_64") → "tms-engine-linux-amd64".
func BinaryName(goos, machine string) string {
	osName, ok := platformOS[strings.ToLower(goos)]
	if !ok {
		osName = "linux"
	}
	arch, ok := platformArch[strings.ToLower(machine)]
	if !ok {
		arch = "amd64"
	}
	name := fmt.Sprintf("%s-%s-%s", BinaryBaseName, osName, arch)
	if osName == "windows" {
		name += ".exe"
	}
	return name
}

// Resolver locates the engine executable. The zero value resolves for the
// running platform using DefaultBundleDirs and exec.LookPath.
type Resolver struct {
	// Path, when set, is used as-is and nothing else is searched.
	Path string
	// BundleDirs are searched in order for the platform binary. Nil means DefaultBundleDirs.
	BundleDirs []string
	// GOOS and GOARCH override the reported platform.
	GOOS   string
	GOARCH string
	// LookPath overrides the PATH search.
	LookPath func(file string) (string, error)
}

// DefaultBundleDirs returns the directory holding the running executable and its
// bin/ subdirectory. It returns nil when the executable path cannot be determined.
func DefaultBundleDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	return []string{dir, filepath.Join(dir, "bin")}
}

// Name returns the bundled binary name for the resolver's platform.
func (r *Resolver) Name() string {
	goos, goarch := r.GOOS, r.GOARCH
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return BinaryName(goos, goarch)
}

// Resolve returns the path of the engine binary: the explicit Path if set,
// else the first bundled binary found, else tms-engine on PATH.
func (r *Resolver) Resolve() (string, error) {
	name := r.Name()
	if r.Path != "" {
		if isFile(r.Path) {
			return r.Path, nil
		}
		return "", &BinaryNotFoundError{Name: name, Searched: []string{r.Path}}
	}

	dirs := r.BundleDirs
	if dirs == nil {
		dirs = DefaultBundleDirs()
	}
	searched := make([]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		searched = append(searched, p)
		if isFile(p) {
			return p, nil
		}
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	searched = append(searched, "$PATH/"+BinaryBaseName)
	if p, err := lookPath(BinaryBaseName); err == nil && p != "" {
		return p, nil
	}
	return "", &BinaryNotFoundError{Name: name, Searched: searched}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
