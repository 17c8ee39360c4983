package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// BudgetService manages budget lines.
type BudgetService struct {
	items repo.Document[[]domain.BudgetItem]
}

func NewBudgetService(items repo.Document[[]domain.BudgetItem]) *BudgetService {
	return &BudgetService{items: items}
}

// List returns all budget lines in insertion order.
func (s *BudgetService) List(ctx context.Context) ([]domain.BudgetItem, error) {
	items, err := s.items.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BudgetService.List: %w", err)
	}
	return nonNil(items), nil
}

// Add appends a line. Manual lines are never deduplicated.
func (s *BudgetService) Add(ctx context.Context, desc, amount string) (domain.BudgetItem, error) {
	item, err := domain.NewBudgetItem(desc, amount)
	if err != nil {
		return domain.BudgetItem{}, err
	}
	if _, err := s.items.Update(ctx, func(cur []domain.BudgetItem) ([]domain.BudgetItem, error) {
		return append(cur, item), nil
	}); err != nil {
		return domain.BudgetItem{}, fmt.Errorf("service.BudgetService.Add: %w", err)
	}
	return item, nil
}

// Update edits a line in place. Blank desc or amount keep the old value.
func (s *BudgetService) Update(ctx context.Context, id, desc, amount string) (domain.BudgetItem, error) {
	var next decimal.Decimal
	if strings.TrimSpace(amount) != "" {
		d, err := domain.ParseAmount(amount)
		if err != nil {
			return domain.BudgetItem{}, err
		}
		next = d
	}

	var updated domain.BudgetItem
	_, err := s.items.Update(ctx, func(cur []domain.BudgetItem) ([]domain.BudgetItem, error) {
		i := slices.IndexFunc(cur, func(it domain.BudgetItem) bool { return it.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: no budget item with id %q", domain.ErrNotFound, id)
		}
		out := slices.Clone(cur)
		if d := strings.TrimSpace(desc); d != "" {
			out[i].Desc = d
		}
		if strings.TrimSpace(amount) != "" {
			out[i].Amount = next
		}
		updated = out[i]
		return out, nil
	})
	if err != nil {
		return domain.BudgetItem{}, fmt.Errorf("service.BudgetService.Update: %w", err)
	}
	return updated, nil
}

// Remove deletes a line by id.
func (s *BudgetService) Remove(ctx context.Context, id string) error {
	_, err := s.items.Update(ctx, func(cur []domain.BudgetItem) ([]domain.BudgetItem, error) {
		return removeByID(cur, id, func(it domain.BudgetItem) string { return it.ID })
	})
	if err != nil {
		return fmt.Errorf("service.BudgetService.Remove: %w", err)
	}
	return nil
}

// Clear removes every line.
func (s *BudgetService) Clear(ctx context.Context) error {
	if _, err := s.items.Update(ctx, func([]domain.BudgetItem) ([]domain.BudgetItem, error) {
		return []domain.BudgetItem{}, nil
	}); err != nil {
		return fmt.Errorf("service.BudgetService.Clear: %w", err)
	}
	return nil
}

// Total sums all lines.
func (s *BudgetService) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.items.Load(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("service.BudgetService.Total: %w", err)
	}
	return domain.BudgetTotal(items), nil
}
