package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditRecord is an append-only record of a state change
type AuditRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Action    string             `bson:"action" json:"action"`
	ActorID   primitive.ObjectID `bson:"actorId,omitempty" json:"actorId,omitempty"`
	TargetID  primitive.ObjectID `bson:"targetId" json:"targetId"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
