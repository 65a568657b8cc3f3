package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProfileRepository creates a GormProfileRepository with a mocked SQL connection
func newMockProfileRepository(t *testing.T) (*GormProfileRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProfileRepository(gormDB), mock, mockDB
}

func profileRows(id uuid.UUID, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "country_code", "currency", "email_notifications"}).
		AddRow(id, email, "hash", "GB", "GBP", true)
}

func TestGormProfileRepository_FindByID(t *testing.T) {
	t.Run("finds existing profile", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(profileID, 1).
			WillReturnRows(profileRows(profileID, "mason@example.com"))

		profile, err := repo.FindByID(context.Background(), profileID)

		assert.NoError(t, err)
		assert.Equal(t, profileID, profile.ID)
		assert.Equal(t, "mason@example.com", profile.Email)
		assert.Equal(t, "GB", profile.CountryCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing profile", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(profileID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		profile, err := repo.FindByID(context.Background(), profileID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, profile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProfileRepository_FindByEmail(t *testing.T) {
	t.Run("normalizes the email before querying", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("mason@example.com", 1).
			WillReturnRows(profileRows(profileID, "mason@example.com"))

		profile, err := repo.FindByEmail(context.Background(), "  Mason@Example.com ")

		assert.NoError(t, err)
		assert.Equal(t, profileID, profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProfileRepository_FindByStripeCustomerID(t *testing.T) {
	t.Run("finds profile by customer ID", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE stripe_customer_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("cus_test123", 1).
			WillReturnRows(profileRows(profileID, "mason@example.com"))

		profile, err := repo.FindByStripeCustomerID(context.Background(), "cus_test123")

		assert.NoError(t, err)
		assert.Equal(t, profileID, profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty customer ID without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profile, err := repo.FindByStripeCustomerID(context.Background(), "")

		assert.Error(t, err)
		assert.Nil(t, profile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProfileRepository_Delete(t *testing.T) {
	t.Run("deletes existing profile", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectExec(`DELETE FROM "profiles" WHERE id = \$1`).
			WithArgs(profileID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), profileID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProfileRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()

		mock.ExpectExec(`DELETE FROM "profiles" WHERE id = \$1`).
			WithArgs(profileID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), profileID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
