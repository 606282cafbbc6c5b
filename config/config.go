package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	BaseURL   string // public base URL used when building file links
	UploadDir string // local staging dir for uploaded files

	EmailSender string
	Password    string // SMTP password
	SMTPHost    string
	SMTPPort    string

	StorageBaseURL string // object storage HTTP endpoint for cover images
	StorageAPIKey  string

	CertFontPath string // TTF used when rendering certificates
	CertOutDir   string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		BaseURL:   getEnv("BASE_URL", "http://localhost:3000"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("EMAIL_PASSWORD", ""),
		SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),

		StorageBaseURL: getEnv("STORAGE_BASE_URL", ""),
		StorageAPIKey:  getEnv("STORAGE_API_KEY", ""),

		CertFontPath: getEnv("CERT_FONT_PATH", "assets/fonts/DejaVuSans.ttf"),
		CertOutDir:   getEnv("CERT_OUT_DIR", "uploads/certificates"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.StorageBaseURL == "" {
		log.Println("Warning: STORAGE_BASE_URL not set. Cover images will be served from local uploads.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
