package services

import (
	"context"
	"fmt"

	"github.com/ShepherdBook/models"
	"github.com/doug-martin/goqu/v9"
)

// CandidatePool reads the member and family records the weekly draw chooses from.
type CandidatePool interface {
	EligibleMembers(ctx context.Context) ([]models.Member, error)
	AllFamilies(ctx context.Context) ([]models.Family, error)
	PriorSelections(ctx context.Context) ([]models.SelectionRef, error)

	// Member and Family return nil when the record does not exist.
	Member(ctx context.Context, memberID int) (*models.Member, error)
	Family(ctx context.Context, familyID int) (*models.Family, error)
	FamilyMembers(ctx context.Context, familyID int) ([]models.Member, error)
}

type DBCandidatePool struct {
	db *goqu.Database
}

func NewDBCandidatePool(db *goqu.Database) *DBCandidatePool {
	return &DBCandidatePool{db: db}
}

func (p *DBCandidatePool) EligibleMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := p.db.From("member").
		Where(
			goqu.C("membership_status").In(models.MembershipStatusActive, models.MembershipStatusVisitor),
			goqu.C("life_status").Eq(models.LifeStatusAlive),
		).
		Order(goqu.C("member_id").Asc()).
		ScanStructsContext(ctx, &members)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load eligible members: %v", ErrStorageUnavailable, err)
	}
	return members, nil
}

func (p *DBCandidatePool) AllFamilies(ctx context.Context) ([]models.Family, error) {
	var families []models.Family
	err := p.db.From("family").
		Order(goqu.C("family_id").Asc()).
		ScanStructsContext(ctx, &families)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load families: %v", ErrStorageUnavailable, err)
	}
	return families, nil
}

func (p *DBCandidatePool) PriorSelections(ctx context.Context) ([]models.SelectionRef, error) {
	var refs []models.SelectionRef
	err := p.db.From("weekly_selection").ScanStructsContext(ctx, &refs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load selection history: %v", ErrStorageUnavailable, err)
	}
	return refs, nil
}

func (p *DBCandidatePool) Member(ctx context.Context, memberID int) (*models.Member, error) {
	var member models.Member
	found, err := p.db.From("member").
		Where(goqu.C("member_id").Eq(memberID)).
		ScanStructContext(ctx, &member)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load member %d: %v", ErrStorageUnavailable, memberID, err)
	}
	if !found {
		return nil, nil
	}
	return &member, nil
}

func (p *DBCandidatePool) Family(ctx context.Context, familyID int) (*models.Family, error) {
	var family models.Family
	found, err := p.db.From("family").
		Where(goqu.C("family_id").Eq(familyID)).
		ScanStructContext(ctx, &family)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load family %d: %v", ErrStorageUnavailable, familyID, err)
	}
	if !found {
		return nil, nil
	}
	return &family, nil
}

func (p *DBCandidatePool) FamilyMembers(ctx context.Context, familyID int) ([]models.Member, error) {
	memberIDs := p.db.From("family_member").
		Select("member_id").
		Where(goqu.C("family_id").Eq(familyID))

	var members []models.Member
	err := p.db.From("member").
		Where(goqu.C("member_id").In(memberIDs)).
		Order(goqu.C("member_id").Asc()).
		ScanStructsContext(ctx, &members)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load members of family %d: %v", ErrStorageUnavailable, familyID, err)
	}
	return members, nil
}
