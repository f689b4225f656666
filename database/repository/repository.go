package repository

import (
	"fmt"

	eventRepo "goldengeneration/database/repository/event"
	memberRepo "goldengeneration/database/repository/member"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the MemberRepository interface and constructors.
type MemberRepository = memberRepo.MemberRepository

var (
	NewMongoMemberRepo     = memberRepo.NewMongoMemberRepo
	NewFirestoreMemberRepo = memberRepo.NewFirestoreMemberRepo
	ErrMemberNotFound      = memberRepo.ErrMemberNotFound
)

// Re-export the EventRepository interface and constructors.
type EventRepository = eventRepo.EventRepository

var (
	NewMongoEventRepo     = eventRepo.NewMongoEventRepo
	NewFirestoreEventRepo = eventRepo.NewFirestoreEventRepo
	ErrEventNotFound      = eventRepo.ErrEventNotFound
)

// Backends holds whichever database handle PERSISTENCE_BACKEND selected.
type Backends struct {
	Firestore *firestore.Client
	Mongo     *mongo.Database
}

// Repositories is the set of repositories the service runs on.
type Repositories struct {
	Members MemberRepository
	Events  EventRepository
}

// New builds the repositories for backend ("firestore" or "mongo").
func New(backend string, b Backends) (*Repositories, error) {
	switch backend {
	case "firestore", "":
		if b.Firestore == nil {
			return nil, fmt.Errorf("firestore backend selected but no Firestore client")
		}
		return &Repositories{
			Members: NewFirestoreMemberRepo(b.Firestore),
			Events:  NewFirestoreEventRepo(b.Firestore),
		}, nil
	case "mongo":
		if b.Mongo == nil {
			return nil, fmt.Errorf("mongo backend selected but no database")
		}
		return &Repositories{
			Members: NewMongoMemberRepo(b.Mongo),
			Events:  NewMongoEventRepo(b.Mongo),
		}, nil
	}
	return nil, fmt.Errorf("unknown persistence backend %q", backend)
}
