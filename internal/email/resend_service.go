package email

import (
	"context"
	"fmt"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// ResendService maneja el envío de correos electrónicos usando Resend API
type ResendService struct {
	client    *resend.Client
	fromEmail string
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(apiKey, fromEmail string, logger *logrus.Logger) *ResendService {
	return &ResendService{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// SendPurchaseReceipt envía el recibo de una compra completada con el PDF adjunto
func (s *ResendService) SendPurchaseReceipt(ctx context.Context, purchase *models.Purchase, customer *models.Customer, receiptPDF []byte) error {
	subject := fmt.Sprintf("Receipt #%s - %s", purchase.Code(), purchase.ShopName)

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Purchase Receipt</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 8px; }
        .content { padding: 20px; }
        .footer { margin-top: 30px; padding: 20px; background-color: #f8f9fa; border-radius: 8px; font-size: 14px; color: #666; }
        .total { font-size: 18px; font-weight: bold; color: #27ae60; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Purchase Receipt</h1>
            <p>Receipt: %s</p>
            <p>Date: %s</p>
        </div>

        <div class="content">
            <h2>Hello %s,</h2>

            <p>Thank you for your purchase. Here are the details:</p>

            <ul>
                <li><strong>Product:</strong> %s</li>
                <li><strong>Shop:</strong> %s</li>
                <li><strong>Quantity:</strong> %d</li>
                <li><strong>Unit price:</strong> %s</li>
                <li><strong>Total:</strong> <span class="total">%s</span></li>
            </ul>

            <p>Your receipt is attached as a PDF.</p>
        </div>

        <div class="footer">
            <p>This is an automatic email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`,
		purchase.Code(),
		purchase.Date.Format("02/01/2006"),
		customer.FullName(),
		purchase.ProductName,
		purchase.ShopName,
		purchase.Quantity,
		purchase.UnitPrice.StringFixed(2),
		purchase.TotalAmount.StringFixed(2))

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{customer.Email},
		Subject: subject,
		Html:    htmlContent,
		Attachments: []*resend.Attachment{
			{
				Filename:    fmt.Sprintf("receipt_%s.pdf", purchase.Code()),
				Content:     receiptPDF,
				ContentType: "application/pdf",
			},
		},
	}

	result, err := s.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id":    result.Id,
		"to":          customer.Email,
		"purchase_id": purchase.ID,
	}).Info("Purchase receipt sent via Resend")

	return nil
}
