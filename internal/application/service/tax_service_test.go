package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineAmounts(t *testing.T) {
	tests := []struct {
		name            string
		amount, rate    string
		mode            enum.TaxMode
		exempt          bool
		net, tax, gross string
	}{
		{"exclusive", "100.00", "16", enum.TaxModeExclusive, false, "100.00", "16.00", "116.00"},
		{"exclusive rounds tax", "9.99", "16", enum.TaxModeExclusive, false, "9.99", "1.60", "11.59"},
		{"inclusive", "99.00", "16", enum.TaxModeInclusive, false, "85.34", "13.66", "99.00"},
		{"inclusive small", "0.05", "16", enum.TaxModeInclusive, false, "0.04", "0.01", "0.05"},
		{"exempt", "50.00", "16", enum.TaxModeExclusive, true, "50.00", "0.00", "50.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, tax, gross := lineAmounts(d(tt.amount), d(tt.rate), tt.mode, tt.exempt)
			assert.Equal(t, tt.net, net.StringFixed(2))
			assert.Equal(t, tt.tax, tax.StringFixed(2))
			assert.Equal(t, tt.gross, gross.StringFixed(2))
			assert.True(t, net.Add(tax).Equal(gross))
		})
	}
}

func TestTaxPreview(t *testing.T) {
	f := newFixture()
	preview, err := f.tax.Preview(context.Background(), TaxPreviewRequest{
		StoreLocationID: f.location.ID,
		At:              f.now,
		TenderType:      tender(enum.TenderTypeCash),
		Lines: []TaxPreviewLineRequest{
			{ProductID: f.soap.ID, Quantity: d("2")},
			{ProductID: f.banana.ID, Quantity: d("1.234")},
		},
	})
	require.NoError(t, err)
	require.Len(t, preview.Lines, 2)

	soap := preview.Lines[0]
	assert.Equal(t, 1, soap.LineNumber)
	assert.Equal(t, "99.00", soap.UnitPrice.StringFixed(2))
	assert.Equal(t, "170.69", soap.NetAmount.StringFixed(2))
	assert.Equal(t, "27.31", soap.TaxAmount.StringFixed(2))
	assert.Equal(t, "198.00", soap.GrossAmount.StringFixed(2))
	assert.False(t, soap.Exempt)

	banana := preview.Lines[1]
	assert.True(t, banana.ZeroRated)
	assert.True(t, banana.Exempt)
	assert.Equal(t, "148.08", banana.GrossAmount.StringFixed(2))
	assert.Equal(t, "0.00", banana.TaxAmount.StringFixed(2))

	assert.Equal(t, "318.77", preview.SubtotalNet.StringFixed(2))
	assert.Equal(t, "27.31", preview.TotalTax.StringFixed(2))
	assert.Equal(t, "346.08", preview.TotalGross.StringFixed(2))
	assert.Equal(t, "0.02", preview.RoundingAdjustment.StringFixed(2))
	assert.Equal(t, "346.10", preview.TotalPayable.StringFixed(2))
	require.NotNil(t, preview.Rounding)
	assert.True(t, preview.Rounding.Applied)
}

func TestTaxPreviewErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	untaxed := f.addProduct(entity.Product{SKU: "NOTAX", BasePrice: d("1.00")})
	orphanGroup := &entity.TaxGroup{ID: uuid.New(), MerchantID: f.merchant.ID, Code: "NORULE", TaxRatePercent: d("8")}
	f.store.taxGroups[orphanGroup.ID] = orphanGroup
	noRule := f.addProduct(entity.Product{SKU: "NORULE", BasePrice: d("1.00"), TaxGroupID: &orphanGroup.ID})

	tests := []struct {
		name string
		line TaxPreviewLineRequest
		want error
	}{
		{"unknown product", TaxPreviewLineRequest{ProductID: uuid.New(), Quantity: d("1")}, apperror.ErrNotFound},
		{"no tax group", TaxPreviewLineRequest{ProductID: untaxed.ID, Quantity: d("1")}, apperror.ErrValidation},
		{"no store rule", TaxPreviewLineRequest{ProductID: noRule.ID, Quantity: d("1")}, apperror.ErrValidation},
		{"zero quantity", TaxPreviewLineRequest{ProductID: f.soap.ID, Quantity: d("0")}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tax.Preview(ctx, TaxPreviewRequest{StoreLocationID: f.location.ID, At: f.now, Lines: []TaxPreviewLineRequest{tt.line}})
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.tax.Preview(ctx, TaxPreviewRequest{StoreLocationID: uuid.New(), At: f.now})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
