package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeDrawEntry represents a member's opt-in for a specific draw.
// At most one entry exists per (draw, user) pair.
type PrizeDrawEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID       primitive.ObjectID `bson:"drawId" json:"drawId"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	MembershipID primitive.ObjectID `bson:"membershipId" json:"membershipId"` // membership snapshot at entry time
	EnteredAt    time.Time          `bson:"enteredAt" json:"enteredAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
