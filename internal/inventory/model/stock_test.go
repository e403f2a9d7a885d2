package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newModelTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&StockItem{}, &GRN{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return db
}

func TestStockItemCodesAreScopedToOrganization(t *testing.T) {
	db := newModelTestDB(t)

	require.NoError(t, db.Create(&StockItem{
		OrganizationID: "org-a",
		ItemCode:       "FILM-12MIC",
		Name:           "BOPP Film 12 Micron",
		Unit:           "kg",
	}).Error)

	// Two organizations may register the same item code.
	assert.NoError(t, db.Create(&StockItem{
		OrganizationID: "org-b",
		ItemCode:       "FILM-12MIC",
		Name:           "BOPP Film 12 Micron",
		Unit:           "kg",
	}).Error)

	// The same organization may not.
	err := db.Create(&StockItem{
		OrganizationID: "org-a",
		ItemCode:       "FILM-12MIC",
		Name:           "Duplicate",
		Unit:           "kg",
	}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestGRNNumbersAreScopedToOrganization(t *testing.T) {
	db := newModelTestDB(t)
	received := time.Now()

	require.NoError(t, db.Create(&GRN{
		OrganizationID: "org-a",
		GRNNumber:      "GRN-2026-0001",
		ItemCode:       "FILM-12MIC",
		QtyReceived:    100,
		ReceivedDate:   received,
	}).Error)

	assert.NoError(t, db.Create(&GRN{
		OrganizationID: "org-b",
		GRNNumber:      "GRN-2026-0001",
		ItemCode:       "INK-CYAN",
		QtyReceived:    25,
		ReceivedDate:   received,
	}).Error)

	err := db.Create(&GRN{
		OrganizationID: "org-a",
		GRNNumber:      "GRN-2026-0001",
		ItemCode:       "INK-CYAN",
		QtyReceived:    25,
		ReceivedDate:   received,
	}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
