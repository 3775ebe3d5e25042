package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Init performs startup: it records the available packages, loads them all
// under the registry's LoadPolicy, and freezes the registry. The registry is
// frozen even when loading failed, so partial results stay read-only.
func (r *Registry) Init() (*Report, error) {
	names, err := r.Enumerate()
	if err != nil {
		r.Freeze()
		return &Report{Outcome: Failed}, err
	}

	report := r.loadAll(names)
	r.Freeze()
	return report, report.Err()
}

// Enumerate lists the candidate packages under the extensions root and
// records them as the available packages.
func (r *Registry) Enumerate() ([]string, error) {
	names, err := r.listPackages()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(); err != nil {
		return nil, err
	}
	r.available = names
	return append([]string(nil), names...), nil
}

// DiscoverAndLoadAll lists the extensions root and loads every package in
// listing order. Under StopOnFirstError it returns at the first failure and
// reports the remaining packages as skipped; under BestEffort it loads
// everything. The error is nil exactly when the report's outcome is Success.
func (r *Registry) DiscoverAndLoadAll() (*Report, error) {
	names, err := r.listPackages()
	if err != nil {
		return &Report{Outcome: Failed}, err
	}

	report := r.loadAll(names)
	return report, report.Err()
}

func (r *Registry) loadAll(names []string) *Report {
	report := &Report{Outcome: Success}

	for i, name := range names {
		d, err := r.load(name)
		if err == nil {
			report.Results = append(report.Results, PackageResult{Name: name, Outcome: Success, Descriptor: d})
			continue
		}
		report.Results = append(report.Results, PackageResult{Name: name, Outcome: Failed, Err: err})
		report.Outcome = Failed
		if r.policy == StopOnFirstError {
			report.Skipped = append([]string(nil), names[i+1:]...)
			break
		}
	}

	ev := r.log.Info()
	if report.Outcome == Failed {
		ev = r.log.Warn()
	}
	ev.Str("root", r.root).
		Str("policy", string(r.policy)).
		Int("candidates", len(names)).
		Int("loaded", len(report.Loaded())).
		Int("failed", len(report.Failures())).
		Strs("skipped", report.Skipped).
		Msg("discovery finished")

	return report
}

// listPackages returns the directory names directly under the root, in the
// filesystem's listing order. Plain files and dot-prefixed entries are not
// package candidates; symlinks to directories are. A missing root yields no
// candidates.
func (r *Registry) listPackages() ([]string, error) {
	entries, err := afero.ReadDir(r.fsys, r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Warn().Str("root", r.root).Msg("extensions root does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("listing extensions root %s: %w", r.root, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && !r.isDirLink(e) {
			r.log.Debug().Str("entry", name).Msg("skipping non-directory entry")
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// isDirLink reports whether e is a symlink whose target is a directory.
// Listings on an OS filesystem carry Lstat info, so a linked package
// directory does not report IsDir.
func (r *Registry) isDirLink(e fs.FileInfo) bool {
	if e.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := r.fsys.Stat(filepath.Join(r.root, e.Name()))
	if err != nil {
		r.log.Warn().Str("entry", e.Name()).Err(err).Msg("skipping unresolvable symlink")
		return false
	}
	return info.IsDir()
}
