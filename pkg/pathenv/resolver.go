// Package pathenv resolves the tool search path used to invoke external
// binaries such as the container runtime and the cluster bootstrapper.
//
// Toolchains installed via shell profile scripts (version managers, user-local
// installs) are often only on PATH after an interactive login shell has run its
// initialization files, which subprocess launches normally skip. The resolver
// reproduces "what a human typing in a terminal would see" by merging a
// caller-supplied path list, the current process PATH, and the login shell's
// fully-initialized PATH — without making the login-shell query a hard
// dependency.
package pathenv

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultShell is used for the login-shell probe when SHELL is unset.
const DefaultShell = "/bin/bash"

// probeTimeout bounds the login-shell PATH query. Profile scripts that hang
// (network calls, prompts) must not block cluster bring-up.
const probeTimeout = 10 * time.Second

// Prober queries a login shell for its fully-initialized PATH value.
// Implementations return the raw PATH string printed by the shell, or an error
// when the probe fails. Failures are always recovered by the resolver.
type Prober func(ctx context.Context, shell string, timeout time.Duration) (string, error)

// Environment is the result of a path resolution: the ordered, deduplicated
// search path entries plus a full copy of the process environment with PATH
// replaced by the merged value.
type Environment struct {
	// Entries are the merged search path entries, first occurrence wins.
	Entries []string
	// Environ is the full environment in "KEY=value" form, suitable for
	// exec.Cmd.Env.
	Environ []string
}

// Path returns the merged entries joined with the platform list separator.
func (e Environment) Path() string {
	return strings.Join(e.Entries, string(os.PathListSeparator))
}

// LookPath searches the resolved entries for an executable file with the given
// name. Unlike exec.LookPath it honors the merged PATH rather than the current
// process PATH, so tools visible only to the login shell are found.
func (e Environment) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			return name, nil
		}

		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}

	for _, dir := range e.Entries {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// isExecutable reports whether path is a regular file with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	const anyExecBit = fs.FileMode(0o111)

	return info.Mode().Perm()&anyExecBit != 0
}

// Resolver merges path sources into a single environment.
type Resolver struct {
	prober Prober
}

// NewResolver creates a resolver that probes the real login shell.
func NewResolver() *Resolver {
	return NewResolverWithProber(LoginShellPath)
}

// NewResolverWithProber creates a resolver with an explicit login-shell prober.
// Tests inject deterministic probers here.
func NewResolverWithProber(prober Prober) *Resolver {
	return &Resolver{prober: prober}
}

// Resolve merges the given path, the current process PATH, and the login
// shell's PATH into one ordered, deduplicated search path. It never fails:
// login-shell probe failures degrade to the first two sources.
//
// Priority order: givenPath entries first, then process PATH entries not
// already present, then login-shell entries not already present. An empty
// givenPath is treated identically to an absent one.
func (r *Resolver) Resolve(ctx context.Context, givenPath string) Environment {
	seen := make(map[string]struct{})

	var entries []string

	appendEntries := func(raw string) {
		for _, entry := range strings.Split(raw, string(os.PathListSeparator)) {
			if entry == "" {
				continue
			}

			if _, ok := seen[entry]; ok {
				continue
			}

			seen[entry] = struct{}{}

			entries = append(entries, entry)
		}
	}

	if givenPath != "" {
		appendEntries(givenPath)
	}

	appendEntries(os.Getenv("PATH"))

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = DefaultShell
	}

	shellPath, err := r.prober(ctx, shell, probeTimeout)
	if err != nil {
		logrus.Debugf("login shell PATH probe failed (shell=%s): %v", shell, err)
	} else {
		appendEntries(shellPath)
	}

	return Environment{
		Entries: entries,
		Environ: environWithPath(strings.Join(entries, string(os.PathListSeparator))),
	}
}

// LoginShellPath is the default Prober. It invokes the shell as an interactive
// login shell so profile and rc scripts run, and captures the PATH it reports.
func LoginShellPath(ctx context.Context, shell string, timeout time.Duration) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, shell, "-i", "-l", "-c", "echo $PATH")

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	// Profile scripts may print banners before the PATH; the echoed value is
	// the last non-empty line.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")

	return strings.TrimSpace(lines[len(lines)-1]), nil
}

// environWithPath copies the current process environment, replacing (or
// adding) the PATH variable with the provided value.
func environWithPath(path string) []string {
	environ := os.Environ()
	replaced := false

	for i, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			environ[i] = "PATH=" + path
			replaced = true

			break
		}
	}

	if !replaced {
		environ = append(environ, "PATH="+path)
	}

	return environ
}
