package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesCode(t *testing.T) {
	id := uuid.MustParse("0b5c2f9e-31f4-4c38-9c63-3a9e0f5a1d77")
	tests := []struct {
		code string
		want string
	}{
		{"t-01", "RCPT-T-01"},
		{"  front till #2 ", "RCPT-FRONT-TILL-2"},
		{"***", "RCPT-TERMINAL-0B5C2F9E-31F4-4C38-9C63-3A9E0F5A1D77"[:40]},
		{strings.Repeat("A", 50), "RCPT-" + strings.Repeat("A", 35)},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, SeriesCode(&entity.TerminalDevice{ID: id, Code: tt.code}))
		})
	}
}

func TestAllocateIsGaplessPerTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	other := &entity.TerminalDevice{ID: uuid.New(), StoreLocationID: f.location.ID, Code: "T02", Active: true}

	first, err := f.receipts.Allocate(ctx, f.terminal)
	require.NoError(t, err)
	second, err := f.receipts.Allocate(ctx, f.terminal)
	require.NoError(t, err)
	elsewhere, err := f.receipts.Allocate(ctx, other)
	require.NoError(t, err)

	assert.Equal(t, "RCPT-T-01-00000001", first.ReceiptNumber)
	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, "RCPT-T-01-00000002", second.ReceiptNumber)
	assert.Equal(t, int64(2), second.Number)
	assert.Equal(t, "RCPT-T02-00000001", elsewhere.ReceiptNumber)
}
