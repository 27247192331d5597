package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success acknowledgements.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateOrderRequest starts a checkout for a plan.
type CreateOrderRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// VerifyPaymentRequest is the client callback after checkout completes.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

// VerifyPaymentResponse reports the outcome of signature verification.
type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	PlanID  string `json:"planId"`
}

// InvoiceRequest asks for the PDF receipt of one payment record.
type InvoiceRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

// UpdateProfileRequest changes the caller's display name.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// SupportMessageRequest is a support-form submission.
type SupportMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
