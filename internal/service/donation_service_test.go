package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/repository"
	"github.com/sahaaya/sahaaya_server/internal/testutil"
)

func setupDonationService(t *testing.T) (*DonationService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	donationRepo := repository.NewDonationRepository(db)
	userRepo := repository.NewUserRepository(db)

	cfg := &config.Config{}
	cfg.Payment.Currency = "INR"

	service := NewDonationService(donationRepo, userRepo, cfg)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestDonationService_Record(t *testing.T) {
	service, db, cleanup := setupDonationService(t)
	defer cleanup()

	ngo := testutil.TestUser(t, db)
	donor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))

	donation, err := service.Record(donor.ID, &dto.RecordDonationRequest{
		NGOID:   ngo.ID,
		Amount:  2500,
		Message: "keep up the good work",
	})
	require.NoError(t, err)

	assert.Equal(t, donor.ID, donation.DonorID)
	assert.Equal(t, ngo.ID, donation.NGOID)
	assert.Equal(t, 2500.0, donation.Amount)
	assert.Equal(t, "INR", donation.Currency)
	assert.Equal(t, model.DonationStatusCompleted, donation.Status)
}

func TestDonationService_Record_RecipientMustBeNGO(t *testing.T) {
	service, db, cleanup := setupDonationService(t)
	defer cleanup()

	donor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))
	otherDonor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))

	_, err := service.Record(donor.ID, &dto.RecordDonationRequest{
		NGOID:  otherDonor.ID,
		Amount: 100,
	})
	assert.Equal(t, ErrNGONotFound, err)

	_, err = service.Record(donor.ID, &dto.RecordDonationRequest{
		NGOID:  999999,
		Amount: 100,
	})
	assert.Equal(t, ErrNGONotFound, err)
}

func TestDonationService_ListForNGO(t *testing.T) {
	service, db, cleanup := setupDonationService(t)
	defer cleanup()

	ngo := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	donor := testutil.TestUser(t, db, testutil.WithRole(model.RoleDonor))

	testutil.TestDonation(t, db, donor.ID, ngo.ID, 500)
	testutil.TestDonation(t, db, donor.ID, ngo.ID, 1000)
	testutil.TestDonation(t, db, donor.ID, other.ID, 250)

	donations, err := service.ListForNGO(ngo.ID)
	require.NoError(t, err)
	assert.Len(t, donations, 2)
}
