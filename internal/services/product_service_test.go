package services

import (
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductServiceMock(t *testing.T) (*ProductService, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewProductService(&database.DB{DB: raw}, nil, 0, nil, nil, logger), mock
}

func TestProductServiceAdjustStockRejectsZeroDelta(t *testing.T) {
	t.Parallel()

	zero := 0
	cases := []struct {
		name string
		req  *models.AdjustStockRequest
	}{
		{"explicit zero", &models.AdjustStockRequest{Delta: &zero}},
		{"missing delta", &models.AdjustStockRequest{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, mock := newProductServiceMock(t)

			_, err := service.AdjustStock(uuid.New(), tc.req)

			var apiErr *models.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Len(t, apiErr.ErrorResponse.Error.Details, 1)
			assert.Equal(t, "delta", apiErr.ErrorResponse.Error.Details[0].Field)
			assert.Contains(t, apiErr.ErrorResponse.Error.Details[0].Issue, "non-zero")

			// La base de datos nunca se toca
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductServiceAdjustStockAppliesSignedDelta(t *testing.T) {
	t.Parallel()

	service, mock := newProductServiceMock(t)
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = $2 ` +
			`WHERE id = $3 AND stock_quantity + $1 >= 0 RETURNING stock_quantity`)).
		WithArgs(-3, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(7))
	mock.ExpectCommit()

	delta := -3
	reason := "damaged units"
	newStock, err := service.AdjustStock(id, &models.AdjustStockRequest{
		Delta:  &delta,
		Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, newStock)
	require.NoError(t, mock.ExpectationsWereMet())
}
