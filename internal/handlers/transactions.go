package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

type CreateTransactionRequest struct {
	CourseID              string  `json:"courseId" validate:"required"`
	Amount                float64 `json:"amount" validate:"gte=0"`
	OriginalPrice         float64 `json:"originalPrice"`
	DiscountPercentage    float64 `json:"discountPercentage"`
	DiscountAmount        float64 `json:"discountAmount"`
	Tax                   float64 `json:"tax"`
	Total                 float64 `json:"total"`
	Status                string  `json:"status"`
	StripePaymentIntentID string  `json:"stripePaymentIntentId"`
	PaymentMethod         string  `json:"paymentMethod"`
	Currency              string  `json:"currency"`
}

type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// transactionView joins a transaction with user and course summaries for
// the admin dashboard.
type transactionView struct {
	models.Transaction `bson:",inline"`
	UserName           string `json:"user_name"`
	UserEmail          string `json:"user_email"`
	CourseTitle        string `json:"course_title"`
}

// CreateTransaction records a payment. The transaction receives an opaque
// TXN id and the user is enrolled when the payment is marked paid.
func CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "courseId is required")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}

	status := req.Status
	if status == "" {
		status = models.TransactionPending
	}
	if !models.ValidTransactionStatus(status) {
		respondError(w, http.StatusBadRequest, "status must be Paid, Pending or Cancel")
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "inr"
	}

	now := time.Now()
	txn := models.Transaction{
		ID:                    primitive.NewObjectID(),
		CreatedAt:             now,
		UpdatedAt:             now,
		TransactionID:         models.GenerateTransactionID(),
		UserID:                user.ID,
		CourseID:              courseID,
		Amount:                req.Amount,
		OriginalPrice:         req.OriginalPrice,
		DiscountPercentage:    req.DiscountPercentage,
		DiscountAmount:        req.DiscountAmount,
		Tax:                   req.Tax,
		Total:                 req.Total,
		Status:                status,
		StripePaymentIntentID: req.StripePaymentIntentID,
		PaymentMethod:         req.PaymentMethod,
		Currency:              currency,
		FullName:              user.FullName,
		PhoneNumber:           user.PhoneNumber,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := database.DB.Collection(database.TransactionsCollection).InsertOne(ctx, txn); err != nil {
		respondServiceError(w, err)
		return
	}

	if status == models.TransactionPaid {
		if _, err := services.Progress.Enroll(ctx, user.ID, courseID); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusCreated, "Transaction recorded successfully", txn)
}

// GetTransactions lists all transactions with user and course details,
// newest first. Admin only.
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coll := database.DB.Collection(database.TransactionsCollection)
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]transactionView, 0, len(txns))
	for _, txn := range txns {
		view := transactionView{Transaction: txn}
		var u models.User
		if err := database.DB.Collection(database.UsersCollection).FindOne(ctx, bson.M{"_id": txn.UserID}).Decode(&u); err == nil {
			view.UserName = u.FullName
			view.UserEmail = u.Email
		}
		var c models.Course
		if err := database.DB.Collection(database.CoursesCollection).FindOne(ctx, bson.M{"_id": txn.CourseID}).Decode(&c); err == nil {
			view.CourseTitle = c.Title
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, "Transactions fetched successfully", views)
}

// GetMyTransactions lists the authenticated user's own transactions.
func GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.TransactionsCollection).Find(ctx,
		bson.M{"user_id": user.ID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	txns := []models.Transaction{}
	if err := cursor.All(ctx, &txns); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Transactions fetched successfully", txns)
}

// UpdateTransactionStatus transitions a transaction's status. Admin only.
func UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var req UpdateTransactionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidTransactionStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "status must be Paid, Pending or Cancel")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := database.DB.Collection(database.TransactionsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var txn models.Transaction
	if err := res.Decode(&txn); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		respondServiceError(w, err)
		return
	}

	if txn.Status == models.TransactionPaid {
		if _, err := services.Progress.Enroll(ctx, txn.UserID, txn.CourseID); err != nil && err != services.ErrUserNotFound {
			respondServiceError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, "Transaction updated successfully", txn)
}
