package dto

import (
	"time"

	"github.com/haeseoky/member-service/internal/domain"
)

// MemberCreateRequest payload for new members.
type MemberCreateRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MemberUpdateRequest payload for renames.
type MemberUpdateRequest struct {
	Name string `json:"name"`
}

// MemberStatusUpdateRequest payload for lifecycle transitions.
type MemberStatusUpdateRequest struct {
	Status string `json:"status"`
}

// MemberResponse is the API representation of a member.
type MemberResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// FromMember maps the aggregate to its response shape.
func FromMember(member *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        member.ID(),
		Email:     member.Email().String(),
		Name:      member.Name(),
		Status:    string(member.Status()),
		CreatedAt: member.CreatedAt(),
		UpdatedAt: member.UpdatedAt(),
		DeletedAt: member.DeletedAt(),
	}
}

// FromMembers maps a list of aggregates.
func FromMembers(members []*domain.Member) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, FromMember(member))
	}
	return responses
}
