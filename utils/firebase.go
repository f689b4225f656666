// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"goldengeneration/config"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the Firebase services the backend talks to.
type FirebaseClients struct {
	App       *firebase.App
	Auth      *auth.Client
	Firestore *firestore.Client
	Bucket    *gcs.BucketHandle
}

// FirebaseInit initializes the Firebase App and the clients built from it.
// The bucket is only opened when FIREBASE_STORAGE_BUCKET is set.
func FirebaseInit(ctx context.Context) (*FirebaseClients, error) {
	cfg := &firebase.Config{
		ProjectID:     config.AppConfig.FirebaseProjectID,
		StorageBucket: config.AppConfig.FirebaseStorageBucket,
	}
	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}

	clients := &FirebaseClients{App: app, Auth: authClient, Firestore: fsClient}

	if config.AppConfig.FirebaseStorageBucket != "" {
		storageClient, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase: error getting Storage client: %w", err)
		}
		bucket, err := storageClient.DefaultBucket()
		if err != nil {
			return nil, fmt.Errorf("firebase: error opening default bucket: %w", err)
		}
		clients.Bucket = bucket
	}

	GetLogger().Info("Firebase initialized",
		zap.String("projectID", config.AppConfig.FirebaseProjectID),
		zap.Bool("storage", clients.Bucket != nil))
	return clients, nil
}

// Close releases the Firestore connection.
func (c *FirebaseClients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
