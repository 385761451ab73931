package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"pestguide-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore
// and Auth clients. Credentials are resolved in order: service account file
// path, base64-encoded service account JSON, Application Default Credentials.
func InitFirebase(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption

	if appConfig.GoogleApplicationCredentials != "" {
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file specified in GOOGLE_APPLICATION_CREDENTIALS does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
			// The SDK may still succeed if ADC is configured in the environment.
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	} else {
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	firebaseAppConfig := &firebase.Config{
		ProjectID: appConfig.FirebaseProjectID,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}
	fsClient = client

	authCl, err := app.Auth(ctx)
	if err != nil {
		// Init is considered failed; release the Firestore client.
		fsClient.Close()
		fsClient = nil
		return fmt.Errorf("app.Auth: %w", err)
	}
	fbAuthClient = authCl

	return nil
}

// GetFirestoreClient returns the global Firestore client. Nil means
// InitFirebase has not been called or failed.
func GetFirestoreClient() *firestore.Client {
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client. Nil means
// InitFirebase has not been called or failed.
func GetFirebaseAuthClient() *auth.Client {
	return fbAuthClient
}
