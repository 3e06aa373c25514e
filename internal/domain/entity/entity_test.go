package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleCartLines(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	key := "SCAN-1"
	cart := &SaleCart{Lines: []SaleCartLine{
		{ID: a, LineNumber: 3},
		{ID: b, LineNumber: 1, LineKey: &key},
		{ID: c, LineNumber: 2},
	}}

	ordered := cart.OrderedLines()
	require.Len(t, ordered, 3)
	assert.Equal(t, []uuid.UUID{b, c, a}, []uuid.UUID{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	assert.Equal(t, 4, cart.NextLineNumber())

	require.NotNil(t, cart.FindLineByKey("SCAN-1"))
	assert.Equal(t, b, cart.FindLineByKey("SCAN-1").ID)
	assert.Nil(t, cart.FindLineByKey("scan-1"))

	assert.True(t, cart.RemoveLine(a))
	assert.False(t, cart.RemoveLine(a))
	assert.Nil(t, cart.FindLine(a))
	assert.Equal(t, 3, cart.NextLineNumber())

	assert.Equal(t, 1, (&SaleCart{}).NextLineNumber())
}

func TestReceiptSeriesTake(t *testing.T) {
	series := &ReceiptSeries{SeriesCode: "RCPT-T01"}

	assert.Equal(t, "RCPT-T01-00000001", series.Take())
	assert.Equal(t, "RCPT-T01-00000002", series.Take())
	assert.Equal(t, int64(3), series.NextNumber)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	ref := &ParkedCartReference{ExpiresAt: now}
	assert.True(t, ref.IsExpired(now), "parking window closes at its expiry instant")
	assert.False(t, ref.IsExpired(now.Add(-time.Second)))

	key := &IdempotencyKey{ExpiresAt: now}
	assert.False(t, key.IsExpired(now), "a stored outcome replays up to its expiry instant")
	assert.True(t, key.IsExpired(now.Add(time.Second)))
}

func TestSaleFindLine(t *testing.T) {
	id := uuid.New()
	sale := &Sale{Lines: []SaleLine{{ID: uuid.New()}, {ID: id, LineNumber: 2}}}

	require.NotNil(t, sale.FindLine(id))
	assert.Equal(t, 2, sale.FindLine(id).LineNumber)
	assert.Nil(t, sale.FindLine(uuid.New()))
}
