// Package handlers contains the HTTP and Socket.IO entrypoints. Handlers
// reach persistence through the package-level Store bundle so tests can swap
// in the in-memory implementation.
package handlers

import (
	"github.com/bt23mme076-gif/atyant-sub000/internal/services"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
)

var (
	Store    *store.Stores
	Email    *services.EmailService
	Payments *services.PaymentService
	Faculty  *services.FacultyService
	Storage  *services.StorageService
)

// Init wires the handler package. Storage may be nil when R2 is not
// configured; avatar upload then returns 503.
func Init(s *store.Stores, email *services.EmailService, payments *services.PaymentService, faculty *services.FacultyService, storage *services.StorageService) {
	Store = s
	Email = email
	Payments = payments
	Faculty = faculty
	Storage = storage
}
