// main.go - Baseball scouting reports server
package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jleboube/scout/database"
	"github.com/jleboube/scout/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Attachment storage
	uploads, err := services.NewUploadStore(getEnv("UPLOAD_DIR", "./uploads"))
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	app := newApp(appDeps{
		db:       database.GetDB(),
		sessions: services.NewSessionStore(),
		uploads:  uploads,
		codes:    registrationCodes(),
	})

	port := getEnv("PORT", "3000")

	log.Printf("🚀 Scouting reports server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🖼️  Uploads directory: %s", uploads.Dir())

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// registrationCodes reads the accepted signup codes from the environment,
// falling back to the built-in set. This is the single source of truth for
// the code list.
func registrationCodes() []string {
	raw := os.Getenv("REGISTRATION_CODES")
	if raw == "" {
		return services.DefaultRegistrationCodes
	}

	codes := make([]string, 0)
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return services.DefaultRegistrationCodes
	}
	return codes
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
