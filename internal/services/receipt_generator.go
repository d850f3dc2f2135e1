package services

import (
	"bytes"
	"fmt"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

// ReceiptGenerator maneja la generación de recibos de compra en PDF
type ReceiptGenerator struct {
	logger *logrus.Logger
}

// NewReceiptGenerator crea una nueva instancia del generador
func NewReceiptGenerator(logger *logrus.Logger) *ReceiptGenerator {
	return &ReceiptGenerator{
		logger: logger,
	}
}

// GeneratePurchaseReceipt genera el recibo PDF de una compra completada
func (g *ReceiptGenerator) GeneratePurchaseReceipt(purchase *models.Purchase, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header con color de fondo
	pdf.SetFillColor(39, 174, 96)
	pdf.Rect(0, 0, 210, 35, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 22)
	pdf.Cell(190, 14, "PURCHASE RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(190, 10, fmt.Sprintf("#%s", purchase.Code()))
	pdf.Ln(16)

	// Datos del cliente
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Customer")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(190, 6, customer.FullName())
	pdf.Ln(6)
	pdf.Cell(190, 6, customer.CustomerCode)
	pdf.Ln(6)
	pdf.Cell(190, 6, customer.Email)
	pdf.Ln(12)

	// Detalle de la compra
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Purchase details")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	writeReceiptRow(pdf, "Product", purchase.ProductName)
	writeReceiptRow(pdf, "Shop", purchase.ShopName)
	writeReceiptRow(pdf, "Date", purchase.Date.Format("02/01/2006 15:04"))
	writeReceiptRow(pdf, "Quantity", fmt.Sprintf("%d", purchase.Quantity))
	writeReceiptRow(pdf, "Unit price", purchase.UnitPrice.StringFixed(2))
	writeReceiptRow(pdf, "Payment method", string(purchase.PurchaseMethod))
	pdf.Ln(4)

	// Total
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(60, 10, "Total")
	pdf.Cell(130, 10, purchase.TotalAmount.StringFixed(2))
	pdf.Ln(14)

	if purchase.Notes != nil && *purchase.Notes != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 5, fmt.Sprintf("Notes: %s", *purchase.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating receipt PDF: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"purchase_id": purchase.ID,
		"pdf_size":    buf.Len(),
	}).Info("Purchase receipt generated")

	return buf.Bytes(), nil
}

func writeReceiptRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(60, 6, label)
	pdf.Cell(130, 6, value)
	pdf.Ln(6)
}
