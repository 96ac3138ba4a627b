package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/learninghub-backend/internal/handlers"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/verify-email", handlers.VerifyEmail)
	r.Post("/api/auth/resend-verification", handlers.ResendVerification)
	r.Post("/api/auth/send-otp", handlers.SendOTP)
	r.Post("/api/auth/verify-otp", handlers.VerifyOTP)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// Public course catalog. OptionalAuth so admins see draft courses
	// through the same endpoints.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth)
		r.Get("/api/courses", handlers.GetCourses)
		r.Get("/api/courses/{id}", handlers.GetCourse)
	})
	r.Get("/api/courses/{id}/feedback", handlers.GetCourseFeedback)
	r.Get("/api/tutors", handlers.GetTutors)

	// Progress routes (caller-scoped by userId; the dashboard and mobile
	// app send the token-derived user id)
	r.Post("/api/progress/update", handlers.UpdateProgress)
	r.Get("/api/progress/{courseId}", handlers.GetProgress)
	r.Get("/api/progress/user/{userId}", handlers.GetUserProgress)

	// Authenticated user routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/users/me", handlers.GetProfile)
		r.Put("/api/users/me", handlers.UpdateProfile)
		r.Get("/api/users/me/courses", handlers.GetMyCourses)
		r.Post("/api/users/enroll", handlers.EnrollInCourse)
		r.Post("/api/feedback", handlers.SubmitFeedback)
		r.Get("/api/feedback/user/{userId}", handlers.GetUserFeedback)
		r.Post("/api/payments/create-payment-intent", handlers.CreatePaymentIntent)
		r.Post("/api/transactions", handlers.CreateTransaction)
		r.Get("/api/transactions/me", handlers.GetMyTransactions)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, middleware.AdminOnly)
		r.Get("/api/admin/users", handlers.GetUsers)
		r.Post("/api/admin/users", handlers.CreateAdmin)
		r.Put("/api/admin/users/{id}/status", handlers.UpdateUserStatus)
		r.Delete("/api/admin/users/{id}", handlers.DeleteUser)
		r.Post("/api/courses", handlers.CreateCourse)
		r.Put("/api/courses/{id}", handlers.UpdateCourse)
		r.Delete("/api/courses/{id}", handlers.DeleteCourse)
		r.Get("/api/admin/transactions", handlers.GetTransactions)
		r.Put("/api/admin/transactions/{id}", handlers.UpdateTransactionStatus)
		r.Post("/api/tutors", handlers.CreateTutor)
		r.Put("/api/tutors/{id}", handlers.UpdateTutor)
		r.Delete("/api/tutors/{id}", handlers.DeleteTutor)
		r.Post("/api/upload", handlers.UploadFile)
	})
}
