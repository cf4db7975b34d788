package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ShepherdBook/initializers"
	"github.com/ShepherdBook/models"
	"go.uber.org/zap"
)

// memberDrawThreshold is the chance of drawing a member when both pools still have
// unselected candidates. Families win the remaining 60%.
const memberDrawThreshold = 0.4

// SelectionAnnouncer is told about each newly created weekly selection.
type SelectionAnnouncer interface {
	AnnounceSelection(ctx context.Context, sel models.WeeklySelection, displayName string) error
}

type WeeklySelectionService struct {
	store     SelectionStore
	pool      CandidatePool
	random    RandomSource
	locker    KeyedLocker
	announcer SelectionAnnouncer
	location  *time.Location
	now       func() time.Time
}

type SelectionOption func(*WeeklySelectionService)

func WithRandomSource(r RandomSource) SelectionOption {
	return func(s *WeeklySelectionService) { s.random = r }
}

func WithClock(now func() time.Time) SelectionOption {
	return func(s *WeeklySelectionService) { s.now = now }
}

func WithSelectionLocker(l KeyedLocker) SelectionOption {
	return func(s *WeeklySelectionService) { s.locker = l }
}

func WithAnnouncer(a SelectionAnnouncer) SelectionOption {
	return func(s *WeeklySelectionService) { s.announcer = a }
}

func NewWeeklySelectionService(store SelectionStore, pool CandidatePool, loc *time.Location, opts ...SelectionOption) *WeeklySelectionService {
	if loc == nil {
		loc = time.Local
	}
	s := &WeeklySelectionService{
		store:    store,
		pool:     pool,
		random:   NewRandomSource(),
		locker:   NewMemoryLocker(),
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentWeek is the week key for the service clock.
func (s *WeeklySelectionService) CurrentWeek() models.WeekKey {
	return WeekKeyFor(s.now(), s.location)
}

// Current returns this week's selection, drawing one if the week has none yet.
func (s *WeeklySelectionService) Current(ctx context.Context) (*models.WeeklySelection, error) {
	return s.GetOrCreate(ctx, s.now())
}

// GetOrCreate returns the selection for the week containing ref. Repeated calls within a
// week return the same record; the first call of a week draws and persists it.
func (s *WeeklySelectionService) GetOrCreate(ctx context.Context, ref time.Time) (*models.WeeklySelection, error) {
	key := WeekKeyFor(ref, s.location)

	existing, err := s.store.FindByWeek(ctx, key.Year, key.WeekNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	unlock, err := s.locker.Lock(ctx, weekLockKey("selection", key))
	if err != nil {
		return nil, fmt.Errorf("failed to lock week %d-%d: %w", key.Year, key.WeekNumber, err)
	}
	defer unlock()

	existing, err = s.store.FindByWeek(ctx, key.Year, key.WeekNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	sel, err := s.draw(ctx, key)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.store.Create(ctx, *sel)
	if err != nil {
		return nil, err
	}

	if created {
		initializers.Log.Info("Weekly selection created",
			zap.Int("weeklySelectionId", stored.Weekly_Selection_ID),
			zap.String("selectionType", stored.Selection_Type),
			zap.Int("year", stored.Year),
			zap.Int("weekNumber", stored.Week_Number),
		)
		s.announce(*stored)
	}

	return stored, nil
}

// draw picks a member or family for key, skipping anyone selected in an earlier week
// until both pools are used up.
func (s *WeeklySelectionService) draw(ctx context.Context, key models.WeekKey) (*models.WeeklySelection, error) {
	prior, err := s.pool.PriorSelections(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.pool.EligibleMembers(ctx)
	if err != nil {
		return nil, err
	}
	families, err := s.pool.AllFamilies(ctx)
	if err != nil {
		return nil, err
	}

	excludedMembers := make(map[int]struct{})
	excludedFamilies := make(map[int]struct{})
	for _, ref := range prior {
		switch {
		case ref.Selection_Type == models.SelectionTypeMember && ref.Member_ID != nil:
			excludedMembers[*ref.Member_ID] = struct{}{}
		case ref.Selection_Type == models.SelectionTypeFamily && ref.Family_ID != nil:
			excludedFamilies[*ref.Family_ID] = struct{}{}
		}
	}

	availableMembers := make([]models.Member, 0, len(members))
	for _, m := range members {
		if _, seen := excludedMembers[m.Member_ID]; !seen {
			availableMembers = append(availableMembers, m)
		}
	}
	availableFamilies := make([]models.Family, 0, len(families))
	for _, f := range families {
		if _, seen := excludedFamilies[f.Family_ID]; !seen {
			availableFamilies = append(availableFamilies, f)
		}
	}

	sel := &models.WeeklySelection{
		Week_Start:  key.WeekStart,
		Week_End:    key.WeekEnd,
		Year:        key.Year,
		Week_Number: key.WeekNumber,
		Prayer_Sent: false,
		Sent_Count:  0,
	}

	pickFamily := func(pool []models.Family) {
		id := pool[s.random.Intn(len(pool))].Family_ID
		sel.Selection_Type = models.SelectionTypeFamily
		sel.Family_ID = &id
	}
	pickMember := func(pool []models.Member) {
		id := pool[s.random.Intn(len(pool))].Member_ID
		sel.Selection_Type = models.SelectionTypeMember
		sel.Member_ID = &id
	}

	switch {
	case len(availableMembers) == 0 && len(availableFamilies) == 0:
		// Everyone has had a turn: start over from the full pools.
		switch {
		case len(families) > 0 && len(members) > 0:
			if s.random.Float64() < 0.5 {
				pickFamily(families)
			} else {
				pickMember(members)
			}
		case len(families) > 0:
			pickFamily(families)
		case len(members) > 0:
			pickMember(members)
		default:
			return nil, ErrNoCandidatesAvailable
		}
		initializers.Log.Info("All candidates selected at least once, drawing from full pools",
			zap.Int("members", len(members)),
			zap.Int("families", len(families)),
		)
	case len(availableFamilies) > 0 && (len(availableMembers) == 0 || s.random.Float64() > memberDrawThreshold):
		pickFamily(availableFamilies)
	default:
		pickMember(availableMembers)
	}

	return sel, nil
}

// Resolve loads the member or family a selection points at.
func (s *WeeklySelectionService) Resolve(ctx context.Context, sel models.WeeklySelection) (Candidate, error) {
	switch sel.Selection_Type {
	case models.SelectionTypeMember:
		if sel.Member_ID == nil {
			return nil, fmt.Errorf("%w: selection %d has no member", ErrSelectionNotFound, sel.Weekly_Selection_ID)
		}
		member, err := s.pool.Member(ctx, *sel.Member_ID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("%w: member %d no longer exists", ErrSelectionNotFound, *sel.Member_ID)
		}
		return MemberCandidate{Member: *member}, nil

	case models.SelectionTypeFamily:
		if sel.Family_ID == nil {
			return nil, fmt.Errorf("%w: selection %d has no family", ErrSelectionNotFound, sel.Weekly_Selection_ID)
		}
		family, err := s.pool.Family(ctx, *sel.Family_ID)
		if err != nil {
			return nil, err
		}
		if family == nil {
			return nil, fmt.Errorf("%w: family %d no longer exists", ErrSelectionNotFound, *sel.Family_ID)
		}
		members, err := s.pool.FamilyMembers(ctx, family.Family_ID)
		if err != nil {
			return nil, err
		}
		return FamilyCandidate{Family: *family, Members: members}, nil
	}

	return nil, fmt.Errorf("%w: unknown selection type %q", ErrSelectionNotFound, sel.Selection_Type)
}

// Detail resolves a selection into its display shape.
func (s *WeeklySelectionService) Detail(ctx context.Context, sel models.WeeklySelection) (*models.WeeklySelectionDetail, error) {
	candidate, err := s.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	detail := &models.WeeklySelectionDetail{
		Selection:   sel,
		DisplayName: candidate.DisplayName(),
		WeekKey:     sel.WeekKey(),
	}

	switch c := candidate.(type) {
	case MemberCandidate:
		member := c.Member
		detail.Member = &member
	case FamilyCandidate:
		members := c.Members
		if members == nil {
			members = []models.Member{}
		}
		detail.Family = &models.FamilyWithMembers{Family: c.Family, Members: members}
	}

	return detail, nil
}

func (s *WeeklySelectionService) History(ctx context.Context, limit int) ([]models.WeeklySelection, error) {
	return s.store.List(ctx, limit)
}

// announce runs in the background; a failed announcement never affects the selection.
func (s *WeeklySelectionService) announce(sel models.WeeklySelection) {
	if s.announcer == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		candidate, err := s.Resolve(ctx, sel)
		if err != nil {
			initializers.Log.Warn("Failed to resolve selection for announcement",
				zap.Int("weeklySelectionId", sel.Weekly_Selection_ID), zap.Error(err))
			return
		}

		if err := s.announcer.AnnounceSelection(ctx, sel, candidate.DisplayName()); err != nil {
			initializers.Log.Warn("Failed to announce weekly selection",
				zap.Int("weeklySelectionId", sel.Weekly_Selection_ID), zap.Error(err))
		}
	}()
}

var weeklySelectionService *WeeklySelectionService

func SetWeeklySelectionService(s *WeeklySelectionService) {
	weeklySelectionService = s
}

func GetWeeklySelectionService() *WeeklySelectionService {
	return weeklySelectionService
}
