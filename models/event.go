package models

import "time"

// Event is a community activity shown in the events feed.
type Event struct {
	ID        string    `json:"id" bson:"id" firestore:"id"`
	Title     string    `json:"title" bson:"title" firestore:"title"`
	Date      time.Time `json:"date" bson:"date" firestore:"date"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty" firestore:"category,omitempty"`
	ImageURL  string    `json:"image,omitempty" bson:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	ImageID   string    `json:"-" bson:"imageId,omitempty" firestore:"imageId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
}
