package main

import (
	"flag"
	"log"

	"go-crm-api/internal/model"
	"go-crm-api/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// reset-admin resets an admin's password from the command line, for when the
// OTP flow is unusable (no SMTP, locked-out super admin).
func main() {
	email := flag.String("email", "admin@example.com", "admin email to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	var admin model.Admin
	if err := db.Where("email = ?", *email).First(&admin).Error; err != nil {
		log.Fatalf("Admin %s not found: %v", *email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Rotating the token version kicks any live session for this account
	if err := db.Model(&admin).Updates(map[string]interface{}{
		"password":      string(hashed),
		"token_version": uuid.New().String(),
	}).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
