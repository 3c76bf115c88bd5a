package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var ErrNGONotFound = errors.New("ngo not found")

// DonationService records donor contributions into the donation ledger.
type DonationService struct {
	donationRepo *repository.DonationRepository
	userRepo     *repository.UserRepository
	cfg          *config.Config
}

func NewDonationService(
	donationRepo *repository.DonationRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

// Record writes a completed donation. The recipient must exist and hold the
// ngo role.
func (s *DonationService) Record(donorID int64, req *dto.RecordDonationRequest) (*model.Donation, error) {
	ngo, err := s.userRepo.GetByID(req.NGOID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNGONotFound
		}
		return nil, err
	}
	if ngo.Role != model.RoleNGO {
		return nil, ErrNGONotFound
	}

	donation := &model.Donation{
		DonorID:  donorID,
		NGOID:    req.NGOID,
		Amount:   req.Amount,
		Currency: s.cfg.Payment.Currency,
		Status:   model.DonationStatusCompleted,
		Message:  req.Message,
	}
	if err := s.donationRepo.Create(donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// ListForNGO returns the donations received by one NGO, newest first.
func (s *DonationService) ListForNGO(ngoID int64) ([]model.Donation, error) {
	return s.donationRepo.ListByNGO(ngoID)
}
