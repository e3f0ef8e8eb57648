package lifecycle

import (
	"testing"

	"github.com/findnest/findnest/internal/model"
)

const (
	t0 = "2026-01-02T10:00:00Z"
	t1 = "2026-01-02T11:00:00Z"
	t2 = "2026-01-02T12:00:00Z"
)

func strptr(s string) *string { return &s }

func TestNormalizeNew_ForcesAvailable(t *testing.T) {
	item := model.Item{
		Item:        "Wallet",
		Status:      model.StatusClaimed, // caller-supplied status is ignored
		ClaimedDate: "2025-12-31T00:00:00Z",
	}

	NormalizeNew(&item, t0)

	if item.Status != model.StatusAvailable {
		t.Errorf("Status = %q, want Available", item.Status)
	}
	if item.ClaimedDate != "" {
		t.Errorf("ClaimedDate = %q, want unset", item.ClaimedDate)
	}
	if item.CreatedAt != t0 || item.UpdatedAt != t0 {
		t.Errorf("timestamps = %q/%q, want both %q", item.CreatedAt, item.UpdatedAt, t0)
	}
}

func TestNormalizeNew_Defaults(t *testing.T) {
	item := model.Item{Item: "Wallet"}

	NormalizeNew(&item, t0)

	if item.TurnoverDate != "" {
		t.Errorf("TurnoverDate = %q, want empty", item.TurnoverDate)
	}
	if item.TurnoverPerson != UnassignedStaff {
		t.Errorf("TurnoverPerson = %q, want %q", item.TurnoverPerson, UnassignedStaff)
	}
	if item.StaffInvolved != UnassignedStaff {
		t.Errorf("StaffInvolved = %q, want %q", item.StaffInvolved, UnassignedStaff)
	}
	if item.FoundByName != UnknownFinder {
		t.Errorf("FoundByName = %q, want %q", item.FoundByName, UnknownFinder)
	}
	if item.ImageURLs == nil {
		t.Error("ImageURLs should be an empty slice, not nil")
	}
}

func TestNormalizeNew_KeepsProvidedValues(t *testing.T) {
	item := model.Item{
		Item:        "Wallet",
		FoundByName: "R. Cruz",
	}

	NormalizeNew(&item, t0)

	if item.FoundByName != "R. Cruz" {
		t.Errorf("FoundByName = %q, provided values must not be overwritten", item.FoundByName)
	}
}

func TestMergeForReplace_PreservesBlankFields(t *testing.T) {
	stored := model.Item{
		ID:          "abc",
		Item:        "Wallet",
		Description: "brown leather",
		Category:    "Accessories",
		Location:    "Library",
		Status:      model.StatusAvailable,
		CreatedAt:   t0,
		UpdatedAt:   t0,
		ImageURLs:   []string{"https://cdn.example/1.png"},
	}
	updated := model.Item{Description: "black leather"}

	MergeForReplace(&stored, &updated, t1)

	if updated.Description != "black leather" {
		t.Errorf("Description = %q, want the new value", updated.Description)
	}
	if updated.Item != "Wallet" || updated.Category != "Accessories" || updated.Location != "Library" {
		t.Error("blank fields must be preserved from the stored record")
	}
	if len(updated.ImageURLs) != 1 {
		t.Error("nil ImageURLs must be preserved from the stored record")
	}
	if updated.ID != "abc" {
		t.Errorf("ID = %q, want the stored id", updated.ID)
	}
	if updated.CreatedAt != t0 {
		t.Errorf("CreatedAt = %q, must never change", updated.CreatedAt)
	}
	if updated.UpdatedAt != t1 {
		t.Errorf("UpdatedAt = %q, want refreshed to %q", updated.UpdatedAt, t1)
	}
}

func TestMergeForReplace_CannotChangeStatus(t *testing.T) {
	stored := model.Item{
		ID:          "abc",
		Item:        "Wallet",
		Status:      model.StatusClaimed,
		ClaimedDate: t0,
	}
	updated := model.Item{Status: model.StatusAvailable} // attempt to resurrect

	MergeForReplace(&stored, &updated, t1)

	if updated.Status != model.StatusClaimed {
		t.Errorf("Status = %q, replace must not change lifecycle state", updated.Status)
	}
	if updated.ClaimedDate != t0 {
		t.Errorf("ClaimedDate = %q, must be preserved", updated.ClaimedDate)
	}
}

func TestApplyPatch_ClaimTransition(t *testing.T) {
	item := model.Item{
		ID:     "abc",
		Item:   "Wallet",
		Status: model.StatusAvailable,
	}

	ApplyPatch(&item, model.ItemPatch{ClaimantName: strptr("J. Doe")}, t1)

	if !item.Status.Is(model.StatusClaimed) {
		t.Errorf("Status = %q, want Claimed", item.Status)
	}
	if item.ClaimedDate != t1 {
		t.Errorf("ClaimedDate = %q, want stamped %q", item.ClaimedDate, t1)
	}
	if item.ClaimantName != "J. Doe" {
		t.Errorf("ClaimantName = %q", item.ClaimantName)
	}
}

func TestApplyPatch_ClaimedDateStampedOnce(t *testing.T) {
	item := model.Item{ID: "abc", Item: "Wallet", Status: model.StatusAvailable}

	ApplyPatch(&item, model.ItemPatch{ClaimantName: strptr("J. Doe")}, t1)
	ApplyPatch(&item, model.ItemPatch{ClaimantName: strptr("A. Smith")}, t2)

	if item.ClaimantName != "A. Smith" {
		t.Errorf("ClaimantName = %q, second patch should update the claimant", item.ClaimantName)
	}
	if item.ClaimedDate != t1 {
		t.Errorf("ClaimedDate = %q, must keep the first stamp %q", item.ClaimedDate, t1)
	}
	if !item.Status.Is(model.StatusClaimed) {
		t.Errorf("Status = %q, want still Claimed", item.Status)
	}
}

func TestApplyPatch_CaseInsensitiveStatusCheck(t *testing.T) {
	// Legacy records carry lowercase statuses; a patch on one must not
	// re-stamp the claim date.
	item := model.Item{
		ID:           "abc",
		Status:       model.Status("claimed"),
		ClaimantName: "J. Doe",
		ClaimedDate:  t0,
	}

	ApplyPatch(&item, model.ItemPatch{ClaimantImage: strptr("https://cdn.example/c.png")}, t1)

	if item.ClaimedDate != t0 {
		t.Errorf("ClaimedDate = %q, lowercase Claimed must still count as claimed", item.ClaimedDate)
	}
}

func TestApplyPatch_NilFieldsUntouched(t *testing.T) {
	item := model.Item{
		ID:             "abc",
		Status:         model.StatusAvailable,
		TurnoverPerson: "M. Reyes",
	}

	ApplyPatch(&item, model.ItemPatch{TurnoverDate: strptr("2026-01-15")}, t1)

	if item.TurnoverDate != "2026-01-15" {
		t.Errorf("TurnoverDate = %q", item.TurnoverDate)
	}
	if item.TurnoverPerson != "M. Reyes" {
		t.Errorf("TurnoverPerson = %q, nil patch field must leave the stored value", item.TurnoverPerson)
	}
	if item.Status != model.StatusAvailable {
		t.Errorf("Status = %q, no claimant means no transition", item.Status)
	}
}

func TestApplyPatch_ExplicitEmptySets(t *testing.T) {
	item := model.Item{
		ID:      "abc",
		Status:  model.StatusAvailable,
		UserRef: "user-1",
	}

	ApplyPatch(&item, model.ItemPatch{UserRef: strptr("")}, t1)

	if item.UserRef != "" {
		t.Errorf("UserRef = %q, a non-nil empty field must clear the value", item.UserRef)
	}
}

func TestApplyTurnover(t *testing.T) {
	item := model.Item{
		ID:         "abc",
		Status:     model.StatusAvailable,
		Department: "Security",
	}

	ApplyTurnover(&item, "2026-02-01", "L. Tan", "Admin Office", t1)

	if item.TurnoverDate != "2026-02-01" || item.TurnoverPerson != "L. Tan" {
		t.Errorf("turnover = %q/%q", item.TurnoverDate, item.TurnoverPerson)
	}
	if item.Department != "Admin Office" {
		t.Errorf("Department = %q", item.Department)
	}
	if !item.Status.Is(model.StatusAvailable) {
		t.Error("turnover is independent of claim status")
	}
	if item.UpdatedAt != t1 {
		t.Errorf("UpdatedAt = %q", item.UpdatedAt)
	}
}
