package workflows

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bluekite-labs/shopdesk-service/internal/config"
	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// InngestClient maneja la configuración y registro de workflows
type InngestClient struct {
	client inngestgo.Client
	logger *logrus.Logger
}

// NewInngestClient crea una nueva instancia del cliente. En modo dev las
// credenciales son opcionales: el cliente habla con el dev server local.
func NewInngestClient(cfg *config.Config, logger *logrus.Logger) (*InngestClient, error) {
	if !cfg.Inngest.Dev {
		if cfg.Inngest.EventKey == "" {
			return nil, fmt.Errorf("INNGEST_EVENT_KEY not configured")
		}
		if cfg.Inngest.SigningKey == "" {
			return nil, fmt.Errorf("INNGEST_SIGNING_KEY not configured")
		}
	}

	opts := inngestgo.ClientOpts{
		AppID: cfg.Inngest.AppID,
		Dev:   inngestgo.BoolPtr(cfg.Inngest.Dev),
	}
	if cfg.Inngest.EventKey != "" {
		opts.EventKey = &cfg.Inngest.EventKey
	}
	if cfg.Inngest.SigningKey != "" {
		opts.SigningKey = &cfg.Inngest.SigningKey
	}

	client, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("error creating Inngest client: %w", err)
	}

	return &InngestClient{
		client: client,
		logger: logger,
	}, nil
}

// EnqueueQRRegeneration publica el evento que dispara la regeneración
// diferida del QR de un producto.
func (c *InngestClient) EnqueueQRRegeneration(ctx context.Context, productID uuid.UUID) error {
	_, err := c.client.Send(ctx, inngestgo.Event{
		Name: QRRegenerateEventName,
		Data: map[string]any{
			"product_id": productID.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("error sending QR regeneration event: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"event":      QRRegenerateEventName,
	}).Info("QR regeneration enqueued")

	return nil
}

// Handler retorna el handler HTTP que atiende las invocaciones de Inngest
func (c *InngestClient) Handler() http.Handler {
	return c.client.Serve()
}

// GetClient retorna el cliente de Inngest
func (c *InngestClient) GetClient() inngestgo.Client {
	return c.client
}
