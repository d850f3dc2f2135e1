package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCustomerFieldsNIC(t *testing.T) {
	t.Parallel()

	valid := []string{"123456789V", "123456789v", "123456789X", "123456789x", "200012345678"}
	for _, nic := range valid {
		assert.Empty(t, validateCustomerFields(nic, nil), nic)
	}

	invalid := []string{"", "12345678V", "1234567890V", "123456789A", "12345678901", "1234567890123"}
	for _, nic := range invalid {
		details := validateCustomerFields(nic, nil)
		require.Len(t, details, 1, nic)
		assert.Equal(t, "nic", details[0].Field)
	}
}

func TestValidateCustomerFieldsPhone(t *testing.T) {
	t.Parallel()

	nic := "123456789V"

	valid := []string{"+94771234567", "0771234567", "+14155552671"}
	for _, phone := range valid {
		p := phone
		assert.Empty(t, validateCustomerFields(nic, &p), phone)
	}

	invalid := []string{"12345", "not-a-number", "+94 77 123 4567"}
	for _, phone := range invalid {
		p := phone
		details := validateCustomerFields(nic, &p)
		require.Len(t, details, 1, phone)
		assert.Equal(t, "phone_number", details[0].Field)
	}

	// Teléfono vacío es válido: el campo es opcional
	empty := ""
	assert.Empty(t, validateCustomerFields(nic, &empty))
}

func TestPostalCodePattern(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"00100", "10250", "99999"} {
		assert.True(t, postalCodePattern.MatchString(code), code)
	}
	for _, code := range []string{"", "1234", "123456", "1025A", "10-25"} {
		assert.False(t, postalCodePattern.MatchString(code), code)
	}
}

func TestProductNamePattern(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Ceylon Tea 500g", "Rice (Basmati)", "Nuts & Bolts", "item_1-2.5"} {
		assert.True(t, productNamePattern.MatchString(name), name)
	}
	for _, name := range []string{"", "té verde", "50% off!", "a;b", "<script>"} {
		assert.False(t, productNamePattern.MatchString(name), name)
	}
}

func TestValidateProductFields(t *testing.T) {
	t.Parallel()

	price := decimal.RequireFromString("10.50")
	stock := 5
	assert.Empty(t, validateProductFields("Ceylon Tea", &price, &stock))

	negPrice := decimal.RequireFromString("-1")
	negStock := -1
	details := validateProductFields("@@@", &negPrice, &negStock)
	require.Len(t, details, 3)
	assert.Equal(t, "name", details[0].Field)
	assert.Equal(t, "price", details[1].Field)
	assert.Equal(t, "stock_quantity", details[2].Field)

	// Precio y stock son opcionales
	assert.Empty(t, validateProductFields("Ceylon Tea", nil, nil))
}

func TestValidateCoordinates(t *testing.T) {
	t.Parallel()

	inRange := func(lat, lon string) []interface{} {
		la := decimal.RequireFromString(lat)
		lo := decimal.RequireFromString(lon)
		details := validateCoordinates(&la, &lo)
		out := make([]interface{}, len(details))
		for i, d := range details {
			out[i] = d.Field
		}
		return out
	}

	assert.Empty(t, inRange("6.9271", "79.8612"))
	assert.Empty(t, inRange("-90", "-180"))
	assert.Empty(t, inRange("90", "180"))

	assert.Equal(t, []interface{}{"latitude"}, inRange("90.0001", "0"))
	assert.Equal(t, []interface{}{"longitude"}, inRange("0", "-180.5"))
	assert.Equal(t, []interface{}{"latitude", "longitude"}, inRange("-91", "181"))

	// Coordenadas nil no generan detalles
	assert.Empty(t, validateCoordinates(nil, nil))
}

func TestValidateContactNumbers(t *testing.T) {
	t.Parallel()

	wa := "+94771234567"
	tp := "0112345678"
	assert.Empty(t, validateContactNumbers(&wa, &tp))

	bad := "abc"
	details := validateContactNumbers(&bad, &tp)
	require.Len(t, details, 1)
	assert.Equal(t, "wa_number", details[0].Field)

	details = validateContactNumbers(&wa, &bad)
	require.Len(t, details, 1)
	assert.Equal(t, "tp_number", details[0].Field)
}
