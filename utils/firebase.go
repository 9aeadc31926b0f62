// File: utils/firebase.go
package utils

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"hearth/config"
)

var (
	FCMClient       *messaging.Client
	FirestoreClient *firestore.Client
)

// FirebaseInit initializes the Firebase app and the Firestore and
// Messaging clients.
func FirebaseInit() {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	var fbConfig *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Firestore client: %v", err)
	}
	FirestoreClient = fs

	msg, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
	FCMClient = msg
}
