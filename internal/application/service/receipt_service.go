package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
)

const maxSeriesCodeLength = 40

var seriesCodeSanitizer = regexp.MustCompile(`[^A-Z0-9]+`)

// ReceiptAllocation is a receipt number handed out for one terminal
type ReceiptAllocation struct {
	SeriesCode    string
	Number        int64
	ReceiptNumber string
}

// ReceiptService hands out gapless per-terminal receipt numbers. It must be
// called inside the unit of work that persists the sale, so that a rolled
// back checkout also rolls back the counter.
type ReceiptService struct {
	receiptRepo repository.ReceiptSeriesRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(receiptRepo repository.ReceiptSeriesRepository) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo}
}

// Allocate locks the terminal's series, creating it on first use, and takes
// the next number
func (s *ReceiptService) Allocate(ctx context.Context, terminal *entity.TerminalDevice) (*ReceiptAllocation, error) {
	series, err := s.receiptRepo.GetByTerminalForUpdate(ctx, terminal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock receipt series: %w", err)
	}
	if series == nil {
		if err := s.receiptRepo.CreateIfAbsent(ctx, &entity.ReceiptSeries{
			TerminalDeviceID: terminal.ID,
			StoreLocationID:  terminal.StoreLocationID,
			SeriesCode:       SeriesCode(terminal),
			NextNumber:       1,
		}); err != nil {
			return nil, fmt.Errorf("failed to create receipt series: %w", err)
		}
		if series, err = s.receiptRepo.GetByTerminalForUpdate(ctx, terminal.ID); err != nil {
			return nil, fmt.Errorf("failed to lock receipt series: %w", err)
		}
		if series == nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("receipt series unavailable for terminal: %s", terminal.ID))
		}
	}

	number := series.NextNumber
	if number < 1 {
		number = 1
	}
	receiptNumber := series.Take()
	if err := s.receiptRepo.Save(ctx, series); err != nil {
		return nil, fmt.Errorf("failed to advance receipt series: %w", err)
	}

	return &ReceiptAllocation{
		SeriesCode:    series.SeriesCode,
		Number:        number,
		ReceiptNumber: receiptNumber,
	}, nil
}

// SeriesCode derives "RCPT-<TERMINAL CODE>" from the terminal code, keeping
// only upper-case letters, digits and single dashes
func SeriesCode(terminal *entity.TerminalDevice) string {
	base := seriesCodeSanitizer.ReplaceAllString(strings.ToUpper(strings.TrimSpace(terminal.Code)), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "TERMINAL-" + strings.ToUpper(terminal.ID.String())
	}

	code := "RCPT-" + base
	if len(code) > maxSeriesCodeLength {
		return code[:maxSeriesCodeLength]
	}
	return code
}
