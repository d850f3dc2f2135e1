package workflows

import (
	"context"
	"fmt"

	"github.com/bluekite-labs/shopdesk-service/internal/services"
	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/sirupsen/logrus"
)

// QRRegenerateEventName es el evento que dispara la regeneración de un QR
const QRRegenerateEventName = "product/qr.regenerate.requested"

// QRRegenerateEvent representa los datos del evento de regeneración
type QRRegenerateEvent struct {
	ProductID string `json:"product_id"`
}

// QRWorkflow regenera códigos QR fuera del camino del request, con
// reintentos cuando el almacenamiento de artefactos falla.
type QRWorkflow struct {
	client    inngestgo.Client
	qrService *services.QRService
	logger    *logrus.Logger
}

// NewQRWorkflow crea una nueva instancia del workflow
func NewQRWorkflow(client *InngestClient, qrService *services.QRService, logger *logrus.Logger) *QRWorkflow {
	return &QRWorkflow{
		client:    client.GetClient(),
		qrService: qrService,
		logger:    logger,
	}
}

// Register registra la función del workflow con Inngest
func (w *QRWorkflow) Register() error {
	_, err := inngestgo.CreateFunction(
		w.client,
		inngestgo.FunctionOpts{
			ID:      "regenerate-product-qr",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger(QRRegenerateEventName, nil),
		w.regenerate,
	)
	if err != nil {
		return fmt.Errorf("error registering QR workflow: %w", err)
	}

	w.logger.Info("QR regeneration workflow registered")
	return nil
}

func (w *QRWorkflow) regenerate(ctx context.Context, input inngestgo.Input[QRRegenerateEvent]) (any, error) {
	productID, err := uuid.Parse(input.Event.Data.ProductID)
	if err != nil {
		// Evento malformado, reintentar no lo va a arreglar
		return nil, inngestgo.NoRetryError(fmt.Errorf("invalid product id %q: %w", input.Event.Data.ProductID, err))
	}

	url, err := step.Run(ctx, "regenerate-qr", func(ctx context.Context) (string, error) {
		return w.qrService.Regenerate(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	w.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"qr_url":     url,
	}).Info("QR regenerated via workflow")

	return map[string]any{
		"product_id": productID.String(),
		"qr_url":     url,
	}, nil
}
