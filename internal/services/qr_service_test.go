package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQRPayload(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	payload := BuildQRPayload(id, "Ceylon Tea 500g", "Main Street Store", 7)

	assert.Equal(t,
		"PRODUCT_ID:550e8400-e29b-41d4-a716-446655440000|NAME:Ceylon Tea 500g|SHOP:Main Street Store|SHOP_ID:7",
		payload)
}

func TestParseQRPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	payload := BuildQRPayload(id, "Rice 5kg", "Corner Shop", 42)

	parsed, err := ParseQRPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, id, parsed.ProductID)
	assert.Equal(t, "Rice 5kg", parsed.Name)
	assert.Equal(t, "Corner Shop", parsed.ShopName)
	assert.Equal(t, int64(42), parsed.ShopID)
}

func TestParseQRPayloadMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"no product id", "NAME:Tea|SHOP:Store|SHOP_ID:1"},
		{"invalid uuid", "PRODUCT_ID:not-a-uuid|NAME:Tea"},
		{"invalid shop id", "PRODUCT_ID:550e8400-e29b-41d4-a716-446655440000|SHOP_ID:abc"},
		{"plain text", "hello world"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseQRPayload(tc.payload)
			assert.Error(t, err)
		})
	}
}

func TestParseQRPayloadOnlyProductID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	parsed, err := ParseQRPayload("PRODUCT_ID:" + id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed.ProductID)
	assert.Empty(t, parsed.Name)
	assert.Zero(t, parsed.ShopID)
}

func TestQRStorageKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t,
		"product_qr_codes/product_550e8400-e29b-41d4-a716-446655440000_qr.png",
		QRStorageKey(id))
}
