package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types produced by the draw engine
const (
	NotificationTypeWinner      = "PRIZE_WINNER"
	NotificationTypeDrawFailure = "DRAW_FAILURE"
)

// Notification represents a queued notification request. Delivery is handled
// by an external worker; this service only enqueues.
type Notification struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID          primitive.ObjectID `bson:"drawId" json:"drawId"`
	RecipientUserID primitive.ObjectID `bson:"recipientUserId,omitempty" json:"recipientUserId,omitempty"`
	Type            string             `bson:"type" json:"type"`
	TemplateData    map[string]string  `bson:"templateData,omitempty" json:"templateData,omitempty"`
	Status          string             `bson:"status" json:"status"` // PENDING, SENT, FAILED
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
