// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"strings"
)

// Status is the prioritization status of a grouped entity.
//
// The zero value is NotAnalyzed. Every transition must go through
// CanTransition; see the package documentation for the full machine.
type Status uint8

const (
	// NotAnalyzed: no analysis performed yet.
	NotAnalyzed Status = iota

	// ParsimonyNotSelected: another candidate was selected in the group.
	ParsimonyNotSelected
	// ParsimonyPrimarySelected: unique parsimonious representative.
	ParsimonyPrimarySelected
	// ParsimonyAmbiguous: tied with interchangeable candidates; needs ML.
	ParsimonyAmbiguous

	// MLNotSelected: another candidate scored higher in the subgroup.
	MLNotSelected
	// MLPrimarySelected: highest score in the subgroup.
	MLPrimarySelected
	// MLSecondarySelected: promoted by the selection policy.
	MLSecondarySelected

	statusCount
)

var statusNames = [statusCount]string{
	NotAnalyzed:              "NOT_ANALYZED",
	ParsimonyNotSelected:     "PARSIMONY_NOT_SELECTED",
	ParsimonyPrimarySelected: "PARSIMONY_PRIMARY_SELECTED",
	ParsimonyAmbiguous:       "PARSIMONY_AMBIGUOUS",
	MLNotSelected:            "ML_NOT_SELECTED",
	MLPrimarySelected:        "ML_PRIMARY_SELECTED",
	MLSecondarySelected:      "ML_SECONDARY_SELECTED",
}

// AllStatuses returns every status in declaration order.
func AllStatuses() []Status {
	out := make([]Status, 0, statusCount)
	for s := NotAnalyzed; s < statusCount; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the upper-snake name of s.
func (s Status) String() string {
	if s < statusCount {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// ParseStatus parses an upper-snake status name (case-insensitive).
// "PARSIMONY_SELECTED" is accepted as an alias of PARSIMONY_PRIMARY_SELECTED.
func ParseStatus(name string) (Status, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "PARSIMONY_SELECTED" {
		return ParsimonyPrimarySelected, nil
	}
	for s := NotAnalyzed; s < statusCount; s++ {
		if statusNames[s] == n {
			return s, nil
		}
	}
	return NotAnalyzed, fmt.Errorf("core: unknown status %q", name)
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	switch s {
	case NotAnalyzed, ParsimonyAmbiguous:
		return false
	case ParsimonyNotSelected, ParsimonyPrimarySelected,
		MLNotSelected, MLPrimarySelected, MLSecondarySelected:
		return true
	default:
		return true
	}
}

// IsSelected reports whether s marks the entity as a chosen representative.
func (s Status) IsSelected() bool {
	switch s {
	case ParsimonyPrimarySelected, MLPrimarySelected, MLSecondarySelected:
		return true
	case NotAnalyzed, ParsimonyNotSelected, ParsimonyAmbiguous, MLNotSelected:
		return false
	default:
		return false
	}
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case NotAnalyzed:
		switch next {
		case ParsimonyNotSelected, ParsimonyPrimarySelected, ParsimonyAmbiguous:
			return true
		default:
			return false
		}
	case ParsimonyAmbiguous:
		switch next {
		case MLNotSelected, MLPrimarySelected, MLSecondarySelected:
			return true
		default:
			return false
		}
	case ParsimonyNotSelected, ParsimonyPrimarySelected,
		MLNotSelected, MLPrimarySelected, MLSecondarySelected:
		return false
	default:
		return false
	}
}
