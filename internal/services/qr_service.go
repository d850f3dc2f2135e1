package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// QRPayload representa el contenido decodificado de un código QR de producto
type QRPayload struct {
	ProductID uuid.UUID
	Name      string
	ShopName  string
	ShopID    int64
}

// BuildQRPayload construye el texto codificado en el QR de un producto.
// El formato es estable: los escáneres existentes dependen de él.
func BuildQRPayload(productID uuid.UUID, name, shopName string, shopID int64) string {
	return fmt.Sprintf("PRODUCT_ID:%s|NAME:%s|SHOP:%s|SHOP_ID:%d", productID, name, shopName, shopID)
}

// ParseQRPayload decodifica el texto de un QR de producto. Sólo el campo
// PRODUCT_ID es obligatorio para resolver el producto.
func ParseQRPayload(payload string) (*QRPayload, error) {
	parsed := &QRPayload{}
	found := false

	for _, part := range strings.Split(payload, "|") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch key {
		case "PRODUCT_ID":
			id, err := uuid.Parse(value)
			if err != nil {
				return nil, fmt.Errorf("invalid product id in QR payload: %w", err)
			}
			parsed.ProductID = id
			found = true
		case "NAME":
			parsed.Name = value
		case "SHOP":
			parsed.ShopName = value
		case "SHOP_ID":
			shopID, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid shop id in QR payload: %w", err)
			}
			parsed.ShopID = shopID
		}
	}

	if !found {
		return nil, fmt.Errorf("QR payload does not contain a product id")
	}

	return parsed, nil
}

// QRStorageKey retorna la clave del artefacto QR de un producto
func QRStorageKey(productID uuid.UUID) string {
	return fmt.Sprintf("product_qr_codes/product_%s_qr.png", productID)
}

// QRService genera y mantiene los artefactos QR de los productos
type QRService struct {
	storage     database.ObjectStorage
	productRepo *database.ProductRepository
	shopRepo    *database.ShopRepository
	logger      *logrus.Logger
}

// NewQRService crea una nueva instancia del servicio
func NewQRService(db *database.DB, storage database.ObjectStorage, logger *logrus.Logger) *QRService {
	return &QRService{
		storage:     storage,
		productRepo: database.NewProductRepository(db, logger),
		shopRepo:    database.NewShopRepository(db, logger),
		logger:      logger,
	}
}

// Generate renderiza el QR del producto, lo sube al almacenamiento y
// persiste la ruta resultante en el producto.
func (s *QRService) Generate(ctx context.Context, product *models.Product, shop *models.Shop) (string, error) {
	payload := BuildQRPayload(product.ID, product.Name, shop.Name, shop.ID)

	png, err := qrcode.Encode(payload, qrcode.Low, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("error encoding QR: %w", err)
	}

	key := QRStorageKey(product.ID)
	url, err := s.storage.Write(ctx, key, png)
	if err != nil {
		return "", fmt.Errorf("error storing QR artifact: %w", err)
	}

	if err := s.productRepo.UpdateQRPath(product.ID, &url); err != nil {
		return "", fmt.Errorf("error saving QR path: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"qr_key":     key,
	}).Info("QR code generated")

	return url, nil
}

// Regenerate reconstruye el QR de un producto tras un cambio de identidad
// (nombre o tienda). Borra primero el artefacto anterior; si el borrado
// falla se continúa de todos modos, el artefacto nuevo lo reemplaza.
func (s *QRService) Regenerate(ctx context.Context, productID uuid.UUID) (string, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}

	shop, err := s.shopRepo.GetByID(product.ShopID)
	if err != nil {
		return "", err
	}

	if product.QRCodePath != nil {
		if err := s.storage.Delete(ctx, QRStorageKey(product.ID)); err != nil {
			s.logger.WithFields(logrus.Fields{
				"product_id": product.ID,
				"error":      err.Error(),
			}).Warn("Could not delete previous QR artifact")
		}
	}

	return s.Generate(ctx, product, shop)
}
