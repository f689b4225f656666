package models

import "time"

// Member is the record handed to the backend once every step is complete.
type Member struct {
	UserID       string               `json:"userId" bson:"userId" firestore:"userId" yaml:"userId"`
	Email        string               `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty" yaml:"email,omitempty"`
	Locale       string               `json:"locale" bson:"locale" firestore:"locale" yaml:"locale"`
	SessionID    string               `json:"sessionId" bson:"sessionId" firestore:"sessionId" yaml:"sessionId"`
	Personal     PersonalDetails      `json:"personal" bson:"personal" firestore:"personal" yaml:"personal"`
	Community    CommunityPreferences `json:"community" bson:"community" firestore:"community" yaml:"community"`
	RegisteredAt time.Time            `json:"registeredAt" bson:"registeredAt" firestore:"registeredAt" yaml:"registeredAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt" yaml:"updatedAt"`
}
