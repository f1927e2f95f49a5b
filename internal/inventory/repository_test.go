package inventory

import (
	"testing"

	"binhoard-api/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	return NewGormRepository(db, zaptest.NewLogger(t))
}

func TestGormRepository_CreateAndGetBin(t *testing.T) {
	repo := newTestRepository(t)

	bin := &Bin{
		LocationID: "loc-1",
		Name:       "Tools",
		Items:      StringList{"hammer", "wrench"},
		Tags:       StringList{"workshop"},
		Notes:      "top shelf",
		Icon:       "toolbox",
		Color:      "red",
	}
	require.NoError(t, repo.CreateBin(bin))

	// identifiers assigned on create
	assert.NotEmpty(t, bin.ID)
	assert.NotEmpty(t, bin.ShortCode)

	fetched, err := repo.GetBinByID(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", fetched.Name)
	assert.Equal(t, StringList{"hammer", "wrench"}, fetched.Items)
	assert.Equal(t, StringList{"workshop"}, fetched.Tags)
	assert.Equal(t, "top shelf", fetched.Notes)
	assert.Equal(t, bin.ShortCode, fetched.ShortCode)
}

func TestGormRepository_CreateBin_KeepsSuppliedIdentifiers(t *testing.T) {
	repo := newTestRepository(t)

	binID := common.BinID(common.NewID())
	bin := &Bin{
		ID:         binID,
		LocationID: "loc-1",
		Name:       "Restored Box",
		ShortCode:  "BH-FACE01",
	}
	require.NoError(t, repo.CreateBin(bin))

	fetched, err := repo.GetBinByID(binID)
	require.NoError(t, err)
	assert.Equal(t, binID, fetched.ID)
	assert.Equal(t, "BH-FACE01", fetched.ShortCode)
}

func TestGormRepository_CreateBin_Validation(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.CreateBin(&Bin{LocationID: "loc-1"})
	assert.True(t, IsValidationError(err))

	err = repo.CreateBin(&Bin{Name: "No Location"})
	assert.True(t, IsValidationError(err))
}

func TestGormRepository_CreateBin_DuplicateShortCode(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.CreateBin(&Bin{LocationID: "loc-1", Name: "First", ShortCode: "BH-SAME00"}))
	err := repo.CreateBin(&Bin{LocationID: "loc-1", Name: "Second", ShortCode: "BH-SAME00"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestGormRepository_GetBinByID_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetBinByID("bin-ghost")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestGormRepository_ListBinsByLocation(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.CreateBin(&Bin{LocationID: "loc-1", Name: "Zebra Supplies"}))
	require.NoError(t, repo.CreateBin(&Bin{LocationID: "loc-1", Name: "Art Supplies"}))
	require.NoError(t, repo.CreateBin(&Bin{LocationID: "loc-2", Name: "Elsewhere"}))

	bins, err := repo.ListBinsByLocation("loc-1")
	require.NoError(t, err)
	require.Len(t, bins, 2)

	// ordered by name, scoped to the location
	assert.Equal(t, "Art Supplies", bins[0].Name)
	assert.Equal(t, "Zebra Supplies", bins[1].Name)
}

func TestGormRepository_UpdateBin_PersistsClearedFields(t *testing.T) {
	repo := newTestRepository(t)

	areaID := common.AreaID(common.NewID())
	bin := &Bin{
		LocationID: "loc-1",
		Name:       "Tools",
		Notes:      "some notes",
		AreaID:     &areaID,
		Items:      StringList{"hammer"},
	}
	require.NoError(t, repo.CreateBin(bin))

	bin.Notes = ""
	bin.AreaID = nil
	bin.Items = StringList{}
	require.NoError(t, repo.UpdateBin(bin))

	fetched, err := repo.GetBinByID(bin.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Notes)
	assert.Nil(t, fetched.AreaID)
	assert.Empty(t, fetched.Items)
}

func TestGormRepository_UpdateBin_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.UpdateBin(&Bin{ID: "bin-ghost", Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestGormRepository_DeleteBin(t *testing.T) {
	repo := newTestRepository(t)

	bin := &Bin{LocationID: "loc-1", Name: "Doomed"}
	require.NoError(t, repo.CreateBin(bin))
	require.NoError(t, repo.DeleteBin(bin.ID))

	_, err := repo.GetBinByID(bin.ID)
	assert.True(t, IsNotFoundError(err))

	// deleting again reports not found
	assert.True(t, IsNotFoundError(repo.DeleteBin(bin.ID)))
}

func TestGormRepository_Areas(t *testing.T) {
	repo := newTestRepository(t)

	area := &Area{LocationID: "loc-1", Name: "Garage"}
	require.NoError(t, repo.CreateArea(area))
	assert.NotEmpty(t, area.ID)

	// lookup is case-insensitive
	fetched, err := repo.GetAreaByName("loc-1", "gArAgE")
	require.NoError(t, err)
	assert.Equal(t, area.ID, fetched.ID)

	_, err = repo.GetAreaByName("loc-1", "Basement")
	assert.True(t, IsNotFoundError(err))

	_, err = repo.GetAreaByName("loc-2", "Garage")
	assert.True(t, IsNotFoundError(err))

	areas, err := repo.ListAreasByLocation("loc-1")
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "Garage", areas[0].Name)
}

func TestGormRepository_WithTransaction(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.WithTransaction(func(tx Repository) error {
		return tx.CreateBin(&Bin{LocationID: "loc-1", Name: "Committed"})
	})
	require.NoError(t, err)

	bins, err := repo.ListBinsByLocation("loc-1")
	require.NoError(t, err)
	assert.Len(t, bins, 1)

	// a returned error rolls everything back
	err = repo.WithTransaction(func(tx Repository) error {
		if err := tx.CreateBin(&Bin{LocationID: "loc-1", Name: "Rolled Back"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	bins, err = repo.ListBinsByLocation("loc-1")
	require.NoError(t, err)
	assert.Len(t, bins, 1)
}
