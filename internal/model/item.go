// Package model defines the data structures used throughout the application.
package model

import "strings"

// Status is the lifecycle state of an item. It is a closed two-value
// enumeration: an item starts Available and may become Claimed exactly once.
//
// Legacy records were written with inconsistent casing ("available",
// "CLAIMED"), so comparisons go through Is rather than ==.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusClaimed   Status = "Claimed"
)

// Is reports whether s matches other, ignoring case.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

// Item represents a found-object record in the active collection.
//
// ID is assigned by the store at creation and never changes. CreatedAt,
// UpdatedAt and ClaimedDate are server-assigned RFC 3339 strings: the
// backing store is schemaless, and an empty string doubles as "not set"
// (ClaimedDate is empty until the item is claimed). DateFound and
// TurnoverDate are client-supplied date strings and may be empty.
type Item struct {
	ID             string   `json:"id"`
	UserRef        string   `json:"userRef"`
	Item           string   `json:"item"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	DateFound      string   `json:"dateFound"`
	ImageURLs      []string `json:"imageUrls"`
	ClaimantName   string   `json:"claimantName"`
	ClaimantImage  string   `json:"claimantImage"`
	FoundByName    string   `json:"foundByName"`
	StaffInvolved  string   `json:"staffInvolved"`
	Department     string   `json:"department"`
	Status         Status   `json:"status"`
	ClaimedDate    string   `json:"claimedDate"`
	TurnoverDate   string   `json:"turnoverDate"`
	TurnoverPerson string   `json:"turnoverPerson"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// ItemPatch is a partial update to an item. A nil field means "leave the
// stored value alone"; a non-nil field (even pointing at an empty string)
// means "set it". Unknown keys in the request body are simply not decoded,
// so they are ignored rather than rejected.
type ItemPatch struct {
	UserRef        *string `json:"userRef"`
	ClaimantName   *string `json:"claimantName"`
	ClaimantImage  *string `json:"claimantImage"`
	TurnoverDate   *string `json:"turnoverDate"`
	TurnoverPerson *string `json:"turnoverPerson"`
	StaffInvolved  *string `json:"staffInvolved"`
	Department     *string `json:"department"`
}

// ItemCounts is the result of the count-summary aggregation. It is a
// deliberately separate shape from Item: counts are derived from one read
// snapshot and are never persisted.
type ItemCounts struct {
	TotalCount     int64 `json:"totalCount"`
	AvailableCount int64 `json:"availableCount"`
	ClaimedCount   int64 `json:"claimedCount"`
}
