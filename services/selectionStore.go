package services

import (
	"context"
	"fmt"

	"github.com/ShepherdBook/models"
	"github.com/doug-martin/goqu/v9"
)

// SelectionStore persists one WeeklySelection per (year, week_number).
type SelectionStore interface {
	// FindByWeek returns nil when the week has no selection yet.
	FindByWeek(ctx context.Context, year, weekNumber int) (*models.WeeklySelection, error)
	// Create inserts sel unless the week already has a selection, in which case the
	// existing record is returned and created is false.
	Create(ctx context.Context, sel models.WeeklySelection) (stored *models.WeeklySelection, created bool, err error)
	// IncrementSendCount bumps sent_count when it is below limit, returning
	// ErrSendLimitExceeded otherwise.
	IncrementSendCount(ctx context.Context, selectionID, limit int) (*models.WeeklySelection, error)
	List(ctx context.Context, limit int) ([]models.WeeklySelection, error)
}

type DBSelectionStore struct {
	db *goqu.Database
}

func NewDBSelectionStore(db *goqu.Database) *DBSelectionStore {
	return &DBSelectionStore{db: db}
}

func (s *DBSelectionStore) FindByWeek(ctx context.Context, year, weekNumber int) (*models.WeeklySelection, error) {
	var sel models.WeeklySelection
	found, err := s.db.From("weekly_selection").
		Where(
			goqu.C("year").Eq(year),
			goqu.C("week_number").Eq(weekNumber),
		).
		ScanStructContext(ctx, &sel)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load selection for %d week %d: %v", ErrStorageUnavailable, year, weekNumber, err)
	}
	if !found {
		return nil, nil
	}
	return &sel, nil
}

func (s *DBSelectionStore) Create(ctx context.Context, sel models.WeeklySelection) (*models.WeeklySelection, bool, error) {
	var stored models.WeeklySelection
	found, err := s.db.Insert("weekly_selection").
		Rows(sel).
		OnConflict(goqu.DoNothing()).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &stored)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create selection: %v", ErrStorageUnavailable, err)
	}
	if found {
		return &stored, true, nil
	}

	// Another request won the insert for this week.
	existing, err := s.FindByWeek(ctx, sel.Year, sel.Week_Number)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("%w: selection for %d week %d vanished after insert conflict", ErrStorageUnavailable, sel.Year, sel.Week_Number)
	}
	return existing, false, nil
}

func (s *DBSelectionStore) IncrementSendCount(ctx context.Context, selectionID, limit int) (*models.WeeklySelection, error) {
	var updated models.WeeklySelection
	found, err := s.db.Update("weekly_selection").
		Set(goqu.Record{
			"sent_count":      goqu.L("sent_count + 1"),
			"prayer_sent":     true,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(
			goqu.C("weekly_selection_id").Eq(selectionID),
			goqu.C("sent_count").Lt(limit),
		).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update send count for selection %d: %v", ErrStorageUnavailable, selectionID, err)
	}
	if !found {
		return nil, ErrSendLimitExceeded
	}
	return &updated, nil
}

func (s *DBSelectionStore) List(ctx context.Context, limit int) ([]models.WeeklySelection, error) {
	var selections []models.WeeklySelection
	err := s.db.From("weekly_selection").
		Order(goqu.C("year").Desc(), goqu.C("week_number").Desc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &selections)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list selections: %v", ErrStorageUnavailable, err)
	}
	return selections, nil
}
