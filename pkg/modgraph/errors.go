// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrPackageConflict is the sentinel error wrapped by PackageConflictError.
	ErrPackageConflict = errors.New("package conflict")
	// ErrUnknownModule is the sentinel error wrapped by UnknownModuleError.
	ErrUnknownModule = errors.New("unknown module")
	// ErrUnknownPackage is the sentinel error wrapped by UnknownPackageError.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")
)

type (
	// DuplicateModuleError is returned when a module name is defined twice.
	DuplicateModuleError struct {
		Name string
	}

	// PackageConflictError is returned when a package is claimed by a module
	// while another module already owns it.
	PackageConflictError struct {
		Package string
		// Owner is the name of the module that already owns the package.
		Owner string
		// Claimant is the name of the module that tried to claim it.
		Claimant string
	}

	// UnknownModuleError is returned when an operation references a module
	// that has not been defined. Exactly one of ID or Name is set.
	UnknownModuleError struct {
		ID   ModuleID
		Name string
	}

	// UnknownPackageError is returned when a package is not owned by the
	// module an operation names.
	UnknownPackageError struct {
		Module  string
		Package string
	}

	// NameKind tells InvalidNameError which kind of name was rejected.
	NameKind string

	// InvalidNameError is returned for malformed module or package names.
	InvalidNameError struct {
		Kind  NameKind
		Value string
	}

	// InvalidVersionError is returned when a module version is rejected by
	// the graph's VersionPolicy.
	InvalidVersionError struct {
		Module string
		Value  string
	}
)

const (
	// NameKindModule marks a rejected module name.
	NameKindModule NameKind = "module"
	// NameKindPackage marks a rejected package name.
	NameKindPackage NameKind = "package"
)

// Error implements the error interface.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is already defined", e.Name)
}

// Unwrap returns ErrDuplicateModule so callers can use errors.Is.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Error implements the error interface.
func (e *PackageConflictError) Error() string {
	return fmt.Sprintf("package %q of module %q is already owned by module %q", e.Package, e.Claimant, e.Owner)
}

// Unwrap returns ErrPackageConflict so callers can use errors.Is.
func (e *PackageConflictError) Unwrap() error { return ErrPackageConflict }

// Error implements the error interface.
func (e *UnknownModuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("module %q is not defined", e.Name)
	}
	return fmt.Sprintf("module #%d is not defined", e.ID)
}

// Unwrap returns ErrUnknownModule so callers can use errors.Is.
func (e *UnknownModuleError) Unwrap() error { return ErrUnknownModule }

// Error implements the error interface.
func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("package %q is not in module %q", e.Package, e.Module)
}

// Unwrap returns ErrUnknownPackage so callers can use errors.Is.
func (e *UnknownPackageError) Unwrap() error { return ErrUnknownPackage }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid %s name %q: must be dot-separated identifiers", e.Kind, e.Value)
}

// Unwrap returns ErrInvalidName so callers can use errors.Is.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("module %q: invalid version %q: expected semantic version (e.g. 1.2.3)", e.Module, e.Value)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }
