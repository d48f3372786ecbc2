package dto

import (
	"time"

	"github.com/spesuez/recruitment/internal/app/models"
)

// CreateCommitteeRequest adds a new committee to the recruitment form.
type CreateCommitteeRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	Description      string `json:"description" binding:"required"`
	Responsibilities string `json:"responsibilities" binding:"required"`
	IsOpen           *bool  `json:"isOpen"`
}

// UpdateCommitteeRequest updates an existing committee. Nil fields are
// left untouched.
type UpdateCommitteeRequest struct {
	Name             *string `json:"name" binding:"omitempty,max=255"`
	Description      *string `json:"description"`
	Responsibilities *string `json:"responsibilities"`
	IsOpen           *bool   `json:"isOpen"`
}

// CommitteeResponse is the public committee representation shown on the
// application form.
type CommitteeResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Responsibilities string `json:"responsibilities"`
	IsOpen           bool   `json:"isOpen"`
}

// FromCommittee converts a model.Committee to a CommitteeResponse.
func FromCommittee(c *models.Committee) CommitteeResponse {
	if c == nil {
		return CommitteeResponse{}
	}
	return CommitteeResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Responsibilities: c.Responsibilities,
		IsOpen:           c.IsOpen,
	}
}

// CommitteeWithCounts decorates a committee with its application count for
// the admin committee listing.
type CommitteeWithCounts struct {
	CommitteeResponse
	ApplicationCount int64     `json:"applicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CommitteeListResponse is the admin committee listing payload.
type CommitteeListResponse struct {
	Committees []CommitteeWithCounts `json:"committees"`
}

// CommitteeApplicationStats breaks a committee's applications down by
// review status.
type CommitteeApplicationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Reviewed int64 `json:"reviewed"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

// CommitteeDetailResponse is the admin committee detail payload: the
// committee plus every application that picked it and their status
// breakdown.
type CommitteeDetailResponse struct {
	Committee    CommitteeResponse         `json:"committee"`
	Applications []ApplicationResponse     `json:"applications"`
	Stats        CommitteeApplicationStats `json:"stats"`
}
