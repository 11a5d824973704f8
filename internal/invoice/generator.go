// Package invoice renders order invoices as PDF documents.
package invoice

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/electioncart/electioncart/internal/models"
)

const (
	sellerName    = "Election Cart"
	sellerTagline = "Campaign Merchandise & Services"
)

// Generate writes a PDF invoice for the order. The order must have its User
// and Items preloaded; unpaid orders are rejected.
func Generate(order *models.Order, w io.Writer) error {
	if order.PaymentCompletedAt == nil {
		return fmt.Errorf("order %s is not paid, no invoice to issue", order.OrderNumber)
	}
	if order.User == nil {
		return fmt.Errorf("order %s has no customer loaded", order.OrderNumber)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+order.OrderNumber, false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, sellerName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, sellerTagline, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	// Invoice details
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "TAX INVOICE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+order.OrderNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Invoice Date: "+order.PaymentCompletedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Order Date: "+order.CreatedAt.Format("02 Jan 2006"), "", 0, "L", false, 0, "")
	if order.GatewayPaymentID != nil {
		pdf.CellFormat(95, 6, "Payment Ref: "+*order.GatewayPaymentID, "", 1, "L", false, 0, "")
	} else {
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Customer
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Billed To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, order.User.Username, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Phone: "+order.User.PhoneNumber, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(90, 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, "Rs. "+item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, "Rs. "+item.Subtotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Rs. "+order.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(10)

	// Footer
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, "This is a computer generated invoice and does not require a signature.", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Generated on "+time.Now().Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
