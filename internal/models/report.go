package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeResult summarises selection for one prize within a draw report
type PrizeResult struct {
	PrizeID          primitive.ObjectID `bson:"prizeId" json:"prizeId"`
	PrizeName        string             `bson:"prizeName" json:"prizeName"`
	RequestedWinners int                `bson:"requestedWinners" json:"requestedWinners"`
	SelectedWinners  int                `bson:"selectedWinners" json:"selectedWinners"`
}

// DrawReport is the per-execution report generated before a draw is marked completed
type DrawReport struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID          primitive.ObjectID `bson:"drawId" json:"drawId"`
	AutoExecuted    bool               `bson:"autoExecuted" json:"autoExecuted"`
	TotalEntries    int                `bson:"totalEntries" json:"totalEntries"`
	EligibleEntries int                `bson:"eligibleEntries" json:"eligibleEntries"`
	PrizeResults    []PrizeResult      `bson:"prizeResults" json:"prizeResults"`
	GeneratedAt     time.Time          `bson:"generatedAt" json:"generatedAt"`
}
