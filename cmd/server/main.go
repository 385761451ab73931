package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pestguide-backend-go/internal/api"
	"pestguide-backend-go/internal/catalog"
	"pestguide-backend-go/internal/config"
	"pestguide-backend-go/internal/db"
	"pestguide-backend-go/internal/identity"
	"pestguide-backend-go/internal/middleware"
	"pestguide-backend-go/internal/session"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		zapLogger.Info("Loaded environment from .env file")
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig, zapLogger); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase clients are nil after initialization. Application cannot start.")
	}

	// --- 4. Initialize Repositories ---
	profileRepo := db.NewFirestoreProfileRepository(firestoreClient)
	catalogRepo := db.NewFirestoreCatalogRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 5. Initialize Services ---
	catalogService := catalog.NewService(catalogRepo, zapLogger)

	newProvider := func() identity.Provider {
		return identity.NewFirebaseProvider(
			appConfig.FirebaseWebAPIKey,
			firebaseAuthClient,
			appConfig.OperationTimeout(),
			zapLogger,
		)
	}
	sessionRegistry := session.NewRegistry(newProvider, profileRepo, zapLogger, session.Options{
		ClearProfileOnLogoutFailure: appConfig.LogoutClearsProfile,
		ResolveTimeout:              appConfig.OperationTimeout(),
	})
	zapLogger.Info("Core services initialized successfully.")

	// --- 6. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 7. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured.")
	}

	// --- 8. Setup API Routes ---
	api.SetupRoutes(router, zapLogger, sessionRegistry, catalogService)

	// --- 9. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 10. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
