package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AwardType distinguishes randomly drawn prizes from discretionary ones.
// Only RANDOM_DRAW prizes are redrawn when a winner's claim window expires.
type AwardType string

const (
	AwardTypeRandomDraw    AwardType = "RANDOM_DRAW"
	AwardTypeDiscretionary AwardType = "DISCRETIONARY"
)

// Prize defines a single prize attached to a draw
type Prize struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID          primitive.ObjectID `bson:"drawId" json:"drawId"`
	Name            string             `bson:"name" json:"name"`
	Value           float64            `bson:"value" json:"value"`
	AwardType       AwardType          `bson:"awardType" json:"awardType"`
	NumberOfWinners int                `bson:"numberOfWinners" json:"numberOfWinners"`
	Active          bool               `bson:"active" json:"active"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
