// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// VersionsFreeForm accepts any version string, including none.
	VersionsFreeForm VersionPolicy = iota
	// VersionsSemVer requires non-empty versions to be semantic versions.
	// The leading "v" is optional.
	VersionsSemVer
)

// qualifiedNamePattern matches dot-separated identifiers such as "java.base" or
// "com.example.util". Each segment starts with a letter, '_' or '$'.
var qualifiedNamePattern = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*(\.[\p{L}_$][\p{L}\p{N}_$]*)*$`)

// VersionPolicy decides which module version strings DefineModule accepts.
type VersionPolicy int

// ValidateModuleName returns an *InvalidNameError if name is not a valid module name.
func ValidateModuleName(name string) error {
	if !qualifiedNamePattern.MatchString(name) {
		return &InvalidNameError{Kind: NameKindModule, Value: name}
	}
	return nil
}

// ValidatePackageName returns an *InvalidNameError if name is not a valid package name.
func ValidatePackageName(name string) error {
	if !qualifiedNamePattern.MatchString(name) {
		return &InvalidNameError{Kind: NameKindPackage, Value: name}
	}
	return nil
}

// String returns the config spelling of the policy.
func (p VersionPolicy) String() string {
	if p == VersionsSemVer {
		return "semver"
	}
	return "freeform"
}

// check validates version for module under p. Empty versions are always allowed.
func (p VersionPolicy) check(module, version string) error {
	if p != VersionsSemVer || version == "" {
		return nil
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	// semver.IsValid accepts shorthands like "v1" and "v1.2"; module versions
	// must spell out all three components.
	if !semver.IsValid(v) || semver.Canonical(v) != strings.SplitN(v, "+", 2)[0] {
		return &InvalidVersionError{Module: module, Value: version}
	}
	return nil
}
