// Package lifecycle holds the rules governing item status transitions,
// default-field population, and field preservation during updates.
// Pure decision logic: nothing here touches the store.
package lifecycle

import (
	"github.com/findnest/findnest/internal/model"
)

// Sentinel defaults for optional fields. Absence at write time is normalized
// to an explicit value so reads never have to distinguish "never set" from
// "not present".
const (
	UnknownFinder   = "Unknown"
	UnassignedStaff = "Unassigned"
)

// NormalizeNew prepares a draft for its first write: the status is forced to
// Available regardless of input, the claim fields are cleared, both
// timestamps are stamped, and blank optional fields get their sentinels.
func NormalizeNew(item *model.Item, now string) {
	item.Status = model.StatusAvailable
	item.ClaimedDate = ""
	item.CreatedAt = now
	item.UpdatedAt = now
	normalizeDefaults(item)
}

// MergeForReplace builds the record to write for a full replace: fields the
// caller left blank are carried over from the stored record rather than
// wiped. Status, claim date, and creation time always come from the stored
// record: a replace can never change lifecycle state; that is patch's job.
func MergeForReplace(stored, updated *model.Item, now string) {
	preserve := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	preserve(&updated.UserRef, stored.UserRef)
	preserve(&updated.Item, stored.Item)
	preserve(&updated.Description, stored.Description)
	preserve(&updated.Category, stored.Category)
	preserve(&updated.Location, stored.Location)
	preserve(&updated.DateFound, stored.DateFound)
	preserve(&updated.ClaimantName, stored.ClaimantName)
	preserve(&updated.ClaimantImage, stored.ClaimantImage)
	preserve(&updated.FoundByName, stored.FoundByName)
	preserve(&updated.StaffInvolved, stored.StaffInvolved)
	preserve(&updated.Department, stored.Department)
	preserve(&updated.TurnoverDate, stored.TurnoverDate)
	preserve(&updated.TurnoverPerson, stored.TurnoverPerson)
	if updated.ImageURLs == nil {
		updated.ImageURLs = stored.ImageURLs
	}

	updated.ID = stored.ID
	updated.Status = stored.Status
	updated.ClaimedDate = stored.ClaimedDate
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = now
	normalizeDefaults(updated)
}

// ApplyPatch applies the fields present in patch to item and enforces the
// claim transition: a patch that leaves the item with a non-empty claimant
// while it is not already Claimed moves it to Claimed and stamps
// ClaimedDate. The stamp happens at most once: later patches, claimant
// changes included, leave ClaimedDate alone, and nothing ever moves a
// Claimed item back to Available.
func ApplyPatch(item *model.Item, patch model.ItemPatch, now string) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&item.UserRef, patch.UserRef)
	set(&item.ClaimantName, patch.ClaimantName)
	set(&item.ClaimantImage, patch.ClaimantImage)
	set(&item.TurnoverDate, patch.TurnoverDate)
	set(&item.TurnoverPerson, patch.TurnoverPerson)
	set(&item.StaffInvolved, patch.StaffInvolved)
	set(&item.Department, patch.Department)

	if item.ClaimantName != "" && !item.Status.Is(model.StatusClaimed) {
		item.Status = model.StatusClaimed
		item.ClaimedDate = now
	}

	item.UpdatedAt = now
}

// ApplyTurnover records a custody hand-off. Turnover is independent of claim
// status: an Available item can change hands between staff.
func ApplyTurnover(item *model.Item, turnoverDate, turnoverPerson, department, now string) {
	item.TurnoverDate = turnoverDate
	item.TurnoverPerson = turnoverPerson
	if department != "" {
		item.Department = department
	}
	item.UpdatedAt = now
	normalizeDefaults(item)
}

func normalizeDefaults(item *model.Item) {
	if item.TurnoverPerson == "" {
		item.TurnoverPerson = UnassignedStaff
	}
	if item.StaffInvolved == "" {
		item.StaffInvolved = UnassignedStaff
	}
	if item.FoundByName == "" {
		item.FoundByName = UnknownFinder
	}
	if item.ImageURLs == nil {
		item.ImageURLs = []string{}
	}
	// TurnoverDate stays "" until a hand-off happens: empty is the explicit
	// "no turnover yet" value for date fields.
}
