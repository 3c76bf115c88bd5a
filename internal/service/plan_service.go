package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanService is the read-only catalog. Plan rows are slowly-changing
// configuration seeded at startup; nothing here mutates them.
type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// ListActivePlans returns the catalog ordered by tier ascending.
func (s *PlanService) ListActivePlans() ([]model.Plan, error) {
	return s.planRepo.ListActive()
}

func (s *PlanService) GetPlanByID(id int64) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) GetPlanByTier(tier int) (*model.Plan, error) {
	plan, err := s.planRepo.GetByTier(tier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}
