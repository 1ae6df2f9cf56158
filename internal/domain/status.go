package domain

import (
	"fmt"

	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// MemberStatus enumerates lifecycle states for members.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusInactive  MemberStatus = "INACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
)

// statusTransitions holds the legal target states per current state.
// INACTIVE has no direct edge back to ACTIVE: reactivation must pass
// through SUSPENDED. Self-transitions are not listed and therefore fail.
var statusTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusActive:    {MemberStatusInactive, MemberStatusSuspended},
	MemberStatusInactive:  {MemberStatusSuspended},
	MemberStatusSuspended: {MemberStatusActive, MemberStatusInactive},
}

// CanTransitionTo reports whether the transition table allows moving to target.
func (s MemberStatus) CanTransitionTo(target MemberStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the known statuses.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a MemberStatus.
func ParseStatus(raw string) (MemberStatus, error) {
	status := MemberStatus(raw)
	if !status.IsValid() {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("unknown member status: %s", raw),
			map[string]any{"status": raw},
		)
	}
	return status, nil
}
