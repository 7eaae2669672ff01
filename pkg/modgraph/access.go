// SPDX-License-Identifier: MPL-2.0

package modgraph

import "fmt"

const (
	// ReasonNone is the reason of an Allowed decision.
	ReasonNone DenialReason = iota
	// ReasonNotExported means the package is not exported to the accessor.
	ReasonNotExported
	// ReasonNotReadable means the accessor does not read the target module.
	ReasonNotReadable
)

type (
	// DenialReason says which half of the access rule failed.
	DenialReason int

	// Decision is the outcome of an access check.
	Decision struct {
		Allowed bool
		Reason  DenialReason
	}
)

// Allowed is the Decision granting access.
var Allowed = Decision{Allowed: true}

// Denied returns the Decision refusing access for reason.
func Denied(reason DenialReason) Decision {
	return Decision{Reason: reason}
}

// String returns the diagnostic text of the reason.
func (r DenialReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNotExported:
		return "not exported"
	case ReasonNotReadable:
		return "no read edge"
	default:
		return fmt.Sprintf("DenialReason(%d)", int(r))
	}
}

// String renders the decision as Allowed or Denied("<reason>").
func (d Decision) String() string {
	if d.Allowed {
		return "Allowed"
	}
	return fmt.Sprintf("Denied(%q)", d.Reason.String())
}

// CheckAccess decides whether module accessor may access package pkg of
// module target. Access needs both an export of pkg visible to accessor and
// readability of target from accessor; exports are checked first, so a module
// failing both is denied as ReasonNotExported.
//
// Unknown modules yield *UnknownModuleError; a pkg that target does not own
// yields *UnknownPackageError.
func (g *Graph) CheckAccess(accessor, target ModuleID, pkg string) (Decision, error) {
	from, err := g.mustRecord(accessor)
	if err != nil {
		return Decision{}, err
	}
	to, err := g.mustRecord(target)
	if err != nil {
		return Decision{}, err
	}
	if !to.owns(pkg) {
		return Decision{}, &UnknownPackageError{Module: to.name, Package: pkg}
	}

	if !to.isExported(pkg, accessor) {
		return Denied(ReasonNotExported), nil
	}
	if !from.canRead(target) {
		return Denied(ReasonNotReadable), nil
	}
	return Allowed, nil
}

// CheckAccessByName is CheckAccess with modules given by name.
func (g *Graph) CheckAccessByName(accessor, target, pkg string) (Decision, error) {
	from, ok := g.ID(accessor)
	if !ok {
		return Decision{}, &UnknownModuleError{Name: accessor}
	}
	to, ok := g.ID(target)
	if !ok {
		return Decision{}, &UnknownModuleError{Name: target}
	}
	return g.CheckAccess(from, to, pkg)
}
