package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// invoiceService implements the InvoiceService interface with gofpdf.
type invoiceService struct {
	orderRepo db.OrderRepository
	userRepo  db.UserRepository
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(orderRepo db.OrderRepository, userRepo db.UserRepository) InvoiceService {
	return &invoiceService{orderRepo: orderRepo, userRepo: userRepo}
}

// Generate renders a PDF receipt for one of the caller's payment records.
// Records owned by someone else are reported as not found rather than
// forbidden, so the endpoint does not leak which record ids exist.
func (s *invoiceService) Generate(ctx context.Context, userID, paymentRecordID string) ([]byte, string, error) {
	if paymentRecordID == "" {
		return nil, "", fmt.Errorf("%w: payment id is required", ErrValidation)
	}

	order, err := s.orderRepo.GetByID(ctx, paymentRecordID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %q", ErrPaymentNotFound, paymentRecordID)
		}
		return nil, "", fmt.Errorf("failed to load payment %q: %w", paymentRecordID, err)
	}
	if order.UserID != userID {
		return nil, "", fmt.Errorf("%w: %q", ErrPaymentNotFound, paymentRecordID)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %q", ErrUserNotFound, userID)
		}
		return nil, "", fmt.Errorf("failed to load user %q: %w", userID, err)
	}

	pdfBytes, err := renderInvoicePDF(order, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render invoice for order %q: %w", order.OrderID, err)
	}
	return pdfBytes, fmt.Sprintf("invoice-%s.pdf", order.OrderID), nil
}

func renderInvoicePDF(order *models.Order, user *models.User) ([]byte, error) {
	price, _ := PlanPrice(order.PlanID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header.
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(37, 99, 235)
	pdf.Text(20, 20, "Next Pay Flow")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(20, 28, "Payment Receipt & Invoice")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, 32, 190, 32)

	// Invoice metadata.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(20, 42, "INVOICE")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(20, 50, "Invoice Date: "+order.CreatedAt.Format("January 2, 2006"))
	pdf.Text(20, 56, "Invoice #: "+order.OrderID)
	paymentID := order.PaymentID
	if paymentID == "" {
		paymentID = "N/A"
	}
	pdf.Text(20, 62, "Payment ID: "+paymentID)

	// Bill-to.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(20, 75, "Bill To:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	name := user.DisplayName
	if name == "" {
		name = "User"
	}
	pdf.Text(20, 82, name)
	pdf.Text(20, 88, user.Email)

	// Line-item table.
	statusLabel := order.Status
	if statusLabel != "" {
		statusLabel = strings.ToUpper(statusLabel[:1]) + statusLabel[1:]
	}
	headers := []string{"Description", "Plan", "Amount", "Status"}
	row := []string{"Subscription Payment", PlanName(order.PlanID), fmt.Sprintf("Rs. %d INR", price), statusLabel}
	widths := []float64{60, 45, 35, 30}

	pdf.SetY(100)
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 247, 250)
	pdf.SetTextColor(0, 0, 0)
	for i, v := range row {
		pdf.CellFormat(widths[i], 8, v, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	// Total and footer.
	totalY := pdf.GetY() + 15
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, totalY, fmt.Sprintf("Total Amount: Rs. %d INR", price))
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(20, totalY+15, "Thank you for your business!")
	pdf.Text(20, totalY+21, "For any queries, please contact us at support@nextpayflow.com")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.Text(20, 280, "This is a computer-generated invoice and requires no signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
