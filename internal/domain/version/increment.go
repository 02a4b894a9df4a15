// Package version provides domain types for semantic versioning.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// IncrementOptions carries the switches that modify an increment.
type IncrementOptions struct {
	// Prerelease is the channel to release onto, e.g. "beta". Empty means a
	// stable release.
	Prerelease string
	// Graduate promotes a 0.x package straight to 1.0.0, overriding the
	// requested severity.
	Graduate bool
}

// Next computes the version that follows current for the given severity.
//
// The returned release type is the one to report for the bump and can differ
// from the requested severity: the initial-development discount lowers it,
// graduation raises it to major, and a prerelease channel maps it onto its
// pre variant. Rules, applied in order:
//
//  1. Graduation: a 0.x version jumps straight to 1.0.0 and reports major.
//  2. Initial-development discount: below 1.0.0 a major becomes a minor and
//     a minor becomes a patch. Patch is unaffected.
//  3. Standard semver increment at the resulting severity, appending the
//     prerelease channel when one is set and continuing the channel counter
//     when the current version already sits on the same channel.
func Next(current Version, severity ReleaseType, opts IncrementOptions) (Version, ReleaseType, error) {
	severity = severity.Stable()
	switch severity {
	case ReleaseTypePatch, ReleaseTypeMinor, ReleaseTypeMajor:
	default:
		return Zero, ReleaseTypeNone, fmt.Errorf("release type %q does not produce an increment", severity)
	}

	if opts.Graduate && current.IsInitialDevelopment() {
		return New(1, 0, 0), ReleaseTypeMajor, nil
	}

	if current.IsInitialDevelopment() {
		switch severity {
		case ReleaseTypeMajor:
			severity = ReleaseTypeMinor
		case ReleaseTypeMinor:
			severity = ReleaseTypePatch
		}
	}

	if opts.Prerelease != "" {
		next, err := nextPrerelease(current, severity, opts.Prerelease)
		if err != nil {
			return Zero, ReleaseTypeNone, err
		}
		return next, severity.WithPrerelease(), nil
	}

	switch severity {
	case ReleaseTypeMajor:
		return current.IncMajor(), severity, nil
	case ReleaseTypeMinor:
		return current.IncMinor(), severity, nil
	default:
		return current.IncPatch(), severity, nil
	}
}

// nextPrerelease computes the next version on a prerelease channel. When the
// current version is already a prerelease of the same channel only the
// counter advances; otherwise a fresh channel starts from the incremented
// stable base.
func nextPrerelease(current Version, severity ReleaseType, channel string) (Version, error) {
	if pre := current.Prerelease(); pre != "" && channelOf(pre) == channel {
		return current.WithPrerelease(bumpChannelCounter(pre, channel))
	}

	var base Version
	switch severity {
	case ReleaseTypeMajor:
		base = current.IncMajor()
	case ReleaseTypeMinor:
		base = current.IncMinor()
	default:
		base = current.IncPatch()
	}
	return base.WithPrerelease(channel + ".1")
}

// channelOf extracts the channel name from a prerelease identifier, e.g.
// "beta" from "beta.4".
func channelOf(prerelease string) string {
	channel, _, _ := strings.Cut(prerelease, ".")
	return channel
}

// bumpChannelCounter advances the numeric counter of a prerelease
// identifier: "beta.3" becomes "beta.4", a bare "beta" becomes "beta.1".
func bumpChannelCounter(prerelease, channel string) string {
	rest := strings.TrimPrefix(prerelease, channel)
	rest = strings.TrimPrefix(rest, ".")
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return channel + ".1"
	}
	return fmt.Sprintf("%s.%d", channel, n+1)
}
