package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRole flags the standing of a member account
type MemberRole string

const (
	MemberRoleMember    MemberRole = "MEMBER"
	MemberRoleBanned    MemberRole = "BANNED"
	MemberRoleSuspended MemberRole = "SUSPENDED"
)

// Member represents a member profile, including the identity verification
// snapshot consumed by the claim flow
type Member struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email               string             `bson:"email" json:"email"`
	FullName            string             `bson:"fullName" json:"fullName"`
	Country             string             `bson:"country" json:"country"`
	Role                MemberRole         `bson:"role" json:"role"`
	ReadyToClaim        bool               `bson:"readyToClaim" json:"readyToClaim"`
	MissingRequirements []string           `bson:"missingRequirements,omitempty" json:"missingRequirements,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MembershipStatus represents the state of a membership record
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusLapsed    MembershipStatus = "LAPSED"
	MembershipStatusCancelled MembershipStatus = "CANCELLED"
)

// Membership is the pre-computed membership fact consumed by eligibility checks
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Status    MembershipStatus   `bson:"status" json:"status"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
