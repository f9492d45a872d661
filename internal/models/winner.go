package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimStatus tracks the member-facing claim track of a winner record
type ClaimStatus string

const (
	ClaimStatusPending ClaimStatus = "PENDING"
	ClaimStatusClaimed ClaimStatus = "CLAIMED"
	ClaimStatusExpired ClaimStatus = "EXPIRED"
)

// PayoutStatus tracks the payout track, independent of the claim track
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusPaid       PayoutStatus = "PAID"
	PayoutStatusBlocked    PayoutStatus = "BLOCKED"
)

// PrizeDrawWinner represents one selection event for a (draw, prize, user).
// Multiple rows may exist per (draw, prize) across original and redraw
// selections. AwardType is copied from the prize at selection time so later
// prize edits cannot change a past winner's redraw eligibility.
type PrizeDrawWinner struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID           primitive.ObjectID  `bson:"drawId" json:"drawId"`
	PrizeID          primitive.ObjectID  `bson:"prizeId" json:"prizeId"`
	UserID           primitive.ObjectID  `bson:"userId" json:"userId"`
	AwardType        AwardType           `bson:"awardType" json:"awardType"`
	SelectedAt       time.Time           `bson:"selectedAt" json:"selectedAt"`
	SelectedByAdmin  *primitive.ObjectID `bson:"selectedByAdmin,omitempty" json:"selectedByAdmin,omitempty"`
	ClaimStatus      ClaimStatus         `bson:"claimStatus" json:"claimStatus"`
	ClaimDeadlineAt  time.Time           `bson:"claimDeadlineAt" json:"claimDeadlineAt"`
	ClaimedAt        *time.Time          `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
	PayoutStatus     PayoutStatus        `bson:"payoutStatus" json:"payoutStatus"`
	BlockedReason    string              `bson:"blockedReason,omitempty" json:"blockedReason,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
