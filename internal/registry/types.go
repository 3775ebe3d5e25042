package registry

import (
	"errors"
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/rs/zerolog"
)

// Outcome is the two-valued result of loading one package or a whole
// discovery pass. The zero value is Failed.
type Outcome int

const (
	Failed Outcome = iota
	Success
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failed"
}

// LoadPolicy decides what discovery does after a package fails to load.
type LoadPolicy string

const (
	// StopOnFirstError stops at the first failing package; later packages
	// are reported as skipped and never loaded.
	StopOnFirstError LoadPolicy = "stop-on-first-error"
	// BestEffort loads every package and reports all failures.
	BestEffort LoadPolicy = "best-effort"
)

// ParseLoadPolicy converts a config string to a LoadPolicy.
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch LoadPolicy(s) {
	case StopOnFirstError, BestEffort:
		return LoadPolicy(s), nil
	case "":
		return StopOnFirstError, nil
	default:
		return "", fmt.Errorf("unknown load policy %q (want %q or %q)", s, StopOnFirstError, BestEffort)
	}
}

// ThemePolicy decides which theme becomes active when more than one
// theme package supplies templates.
type ThemePolicy string

const (
	// ThemeLastWins activates every qualifying theme in turn, so the last
	// one in enumeration order stays active.
	ThemeLastWins ThemePolicy = "last-wins"
	// ThemeFirstWins keeps the first qualifying theme.
	ThemeFirstWins ThemePolicy = "first-wins"
	// ThemeExclusive allows one qualifying theme; a second one fails to load.
	ThemeExclusive ThemePolicy = "exclusive"
)

// ParseThemePolicy converts a config string to a ThemePolicy.
func ParseThemePolicy(s string) (ThemePolicy, error) {
	switch ThemePolicy(s) {
	case ThemeLastWins, ThemeFirstWins, ThemeExclusive:
		return ThemePolicy(s), nil
	case "":
		return ThemeLastWins, nil
	default:
		return "", fmt.Errorf("unknown theme selection %q (want %q, %q or %q)", s, ThemeLastWins, ThemeFirstWins, ThemeExclusive)
	}
}

// Options configures a Registry. The zero value uses StopOnFirstError,
// ThemeLastWins and a no-op logger.
type Options struct {
	LoadPolicy  LoadPolicy
	ThemePolicy ThemePolicy
	Logger      *zerolog.Logger
}

// PackageResult is the outcome of loading one package during discovery.
type PackageResult struct {
	Name       string
	Outcome    Outcome
	Descriptor *manifest.Descriptor // set on Success
	Err        error                // set on Failed
}

// Report summarizes a discovery pass.
type Report struct {
	Outcome Outcome
	Results []PackageResult // in load order
	Skipped []string        // names never attempted because discovery stopped early
}

// Failures returns the results whose outcome is Failed.
func (r *Report) Failures() []PackageResult {
	var out []PackageResult
	for _, res := range r.Results {
		if res.Outcome == Failed {
			out = append(out, res)
		}
	}
	return out
}

// Loaded returns the names of the packages that loaded successfully.
func (r *Report) Loaded() []string {
	var out []string
	for _, res := range r.Results {
		if res.Outcome == Success {
			out = append(out, res.Name)
		}
	}
	return out
}

// Err returns nil for a successful pass, the failure itself when there was
// exactly one, and all failures joined otherwise.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	switch len(errs) {
	case 0:
		if r.Outcome == Failed {
			return errors.New("discovery failed")
		}
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
