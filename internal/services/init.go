package services

import (
	"log"

	"github.com/AnshRaj112/learninghub-backend/internal/config"
	"github.com/AnshRaj112/learninghub-backend/internal/database"
)

// Package-level service instances, wired once at startup.
var (
	Users    UserStore
	Courses  CourseStore
	Tokens   *TokenService
	Auth     *AuthService
	Progress *ProgressService
	OTP      *OTPService
	Mail     Mailer
	Payments *PaymentService
	Cloud    *CloudinaryService
)

// Init wires the service layer against the connected database clients.
// Must be called after database.Connect and database.ConnectRedis.
func Init(cfg *config.Config) {
	Users = NewMongoUserStore(database.DB)
	Courses = NewMongoCourseStore(database.DB)
	Tokens = NewTokenService(NewMongoTokenStore(database.DB))
	Mail = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	Auth = NewAuthService(Users, Tokens, Mail, cfg.FrontendURL, cfg.JWTSecret)
	Progress = NewProgressService(Users, Courses, NewMongoProgressStore(database.DB))
	OTP = NewOTPService(database.RedisClient)
	Payments = NewPaymentService(cfg.StripeSecretKey)

	cld, err := NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("⚠️ Cloudinary not configured: %v", err)
	} else {
		Cloud = cld
		log.Println("✅ Cloudinary service initialized")
	}

	log.Println("✅ Services initialized")
}
