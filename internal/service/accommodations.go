package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/merge"
	"github.com/pkordes/tripboard/internal/repo"
)

// StayImport reports what an EML import did.
type StayImport struct {
	Stay        domain.Stay      `json:"stay"`
	Duplicate   bool             `json:"duplicate"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	BudgetAdded bool             `json:"budgetAdded"`
}

// Notice is the one-line summary shown after an import, e.g.
// "Imported stay (duplicate skipped) and price 120.00".
func (r StayImport) Notice() string {
	var b strings.Builder
	b.WriteString("Imported stay")
	if r.Duplicate {
		b.WriteString(" (duplicate skipped)")
	}
	if r.Price != nil {
		b.WriteString(" and price ")
		b.WriteString(r.Price.StringFixed(2))
	}
	return b.String()
}

// AccommodationService manages stays. EML imports also add the booking
// total to the budget.
type AccommodationService struct {
	stays  repo.Document[[]domain.Stay]
	budget repo.Document[[]domain.BudgetItem]
}

func NewAccommodationService(stays repo.Document[[]domain.Stay], budget repo.Document[[]domain.BudgetItem]) *AccommodationService {
	return &AccommodationService{stays: stays, budget: budget}
}

// List returns all stays in insertion order.
func (s *AccommodationService) List(ctx context.Context) ([]domain.Stay, error) {
	stays, err := s.stays.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AccommodationService.List: %w", err)
	}
	return nonNil(stays), nil
}

// Add appends a stay unless one with the same name and dates exists.
// Reports whether it was added.
func (s *AccommodationService) Add(ctx context.Context, stay domain.Stay) (domain.Stay, bool, error) {
	stay.Name = strings.TrimSpace(stay.Name)
	if err := required("name", stay.Name); err != nil {
		return domain.Stay{}, false, err
	}
	if stay.ID == "" {
		stay.ID = domain.NewID()
	}
	added, err := s.appendStay(ctx, stay)
	if err != nil {
		return domain.Stay{}, false, fmt.Errorf("service.AccommodationService.Add: %w", err)
	}
	return stay, added, nil
}

// Remove deletes a stay by id.
func (s *AccommodationService) Remove(ctx context.Context, id string) error {
	_, err := s.stays.Update(ctx, func(cur []domain.Stay) ([]domain.Stay, error) {
		return removeByID(cur, id, func(st domain.Stay) string { return st.ID })
	})
	if err != nil {
		return fmt.Errorf("service.AccommodationService.Remove: %w", err)
	}
	return nil
}

// Clear removes every stay.
func (s *AccommodationService) Clear(ctx context.Context) error {
	if _, err := s.stays.Update(ctx, func([]domain.Stay) ([]domain.Stay, error) {
		return []domain.Stay{}, nil
	}); err != nil {
		return fmt.Errorf("service.AccommodationService.Clear: %w", err)
	}
	return nil
}

// ImportEML builds a stay from a booking email and appends it unless it is
// a duplicate. A positive booking total is added to the budget as
// "Hotel: <name>" unless the same line is already there; this happens even
// when the stay itself was a duplicate. Returns domain.ErrImport when no
// hotel name could be found. A failed budget write still returns the
// stored stay alongside the error.
func (s *AccommodationService) ImportEML(ctx context.Context, raw string, defaults importer.StayDefaults) (StayImport, error) {
	c, err := importer.StayFromEML(raw, defaults)
	if err != nil {
		return StayImport{}, fmt.Errorf("service.AccommodationService.ImportEML: %w", err)
	}

	added, err := s.appendStay(ctx, c.Stay)
	if err != nil {
		return StayImport{}, fmt.Errorf("service.AccommodationService.ImportEML: %w", err)
	}
	result := StayImport{Stay: c.Stay, Duplicate: !added}

	item, ok := importer.BudgetItemForStay(c)
	if !ok {
		return result, nil
	}
	price := item.Amount
	result.Price = &price

	_, err = s.budget.Update(ctx, func(cur []domain.BudgetItem) ([]domain.BudgetItem, error) {
		merged, fresh := merge.BudgetItems(cur, []domain.BudgetItem{item})
		result.BudgetAdded = len(fresh) > 0
		if !result.BudgetAdded {
			return nil, repo.ErrSkipWrite
		}
		return merged, nil
	})
	if err != nil {
		result.BudgetAdded = false
		return result, fmt.Errorf("service.AccommodationService.ImportEML: budget: %w", err)
	}
	return result, nil
}

func (s *AccommodationService) appendStay(ctx context.Context, stay domain.Stay) (bool, error) {
	added := false
	_, err := s.stays.Update(ctx, func(cur []domain.Stay) ([]domain.Stay, error) {
		merged, fresh := merge.Stays(cur, []domain.Stay{stay})
		added = len(fresh) > 0
		if !added {
			return nil, repo.ErrSkipWrite
		}
		return merged, nil
	})
	return added, err
}
