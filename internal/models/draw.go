package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle status of a prize draw
type DrawStatus string

const (
	DrawStatusDraft     DrawStatus = "DRAFT"
	DrawStatusAnnounced DrawStatus = "ANNOUNCED"
	DrawStatusActive    DrawStatus = "ACTIVE"
	DrawStatusExecuting DrawStatus = "EXECUTING"
	DrawStatusCompleted DrawStatus = "COMPLETED"
	DrawStatusFailed    DrawStatus = "FAILED"
	DrawStatusCancelled DrawStatus = "CANCELLED"
)

// PrizeDraw represents a scheduled prize-distribution event scoped to one country
type PrizeDraw struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Country            string             `bson:"country" json:"country"`
	ScheduledAt        time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	Status             DrawStatus         `bson:"status" json:"status"`
	ExecutedAt         *time.Time         `bson:"executedAt,omitempty" json:"executedAt,omitempty"` // set once, idempotency marker
	EstimatedPoolSize  int                `bson:"estimatedPoolSize" json:"estimatedPoolSize"`       // informational forecast
	EstimatedPrizeFund float64            `bson:"estimatedPrizeFund" json:"estimatedPrizeFund"`     // informational forecast
	TotalEntries       int                `bson:"totalEntries" json:"totalEntries"`
	EligibleEntries    int                `bson:"eligibleEntries" json:"eligibleEntries"`
	NumWinners         int                `bson:"numWinners" json:"numWinners"`
	ErrorMessage       string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
