package inventory

import (
	"errors"
	"strings"
	"time"

	"binhoard-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormRepository implements the Repository interface using GORM
type gormRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormRepository creates a new GORM-based inventory repository
func NewGormRepository(db *gorm.DB, logger *zap.Logger) Repository {
	return &gormRepository{
		db:     db,
		logger: logger,
	}
}

// Bin operations

// CreateBin creates a new bin. If the caller supplied an ID or short code
// (undo recreate path), those are kept so external label references stay
// valid; otherwise fresh ones are assigned.
func (r *gormRepository) CreateBin(bin *Bin) error {
	if bin.Name == "" {
		return NewBinValidationError("name", bin.Name, "bin name is required")
	}
	if bin.LocationID == "" {
		return NewBinValidationError("location_id", bin.LocationID, "location is required")
	}

	if bin.ID == "" {
		bin.ID = common.BinID(common.NewID())
	}
	if bin.ShortCode == "" {
		bin.ShortCode = NewShortCode()
	}

	now := time.Now()
	if bin.CreatedAt.IsZero() {
		bin.CreatedAt = now
	}
	bin.UpdatedAt = now

	r.logger.Debug("Creating bin",
		zap.String("binID", string(bin.ID)),
		zap.String("name", bin.Name))

	if err := r.db.Create(bin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return BinValidationError{Field: "short_code", Value: bin.ShortCode, ErrMessage: "short code already in use"}
		}
		return WrapRepositoryError(err, "create bin")
	}

	r.logger.Info("Bin created", zap.String("binID", string(bin.ID)))
	return nil
}

// GetBinByID retrieves a bin by its ID
func (r *gormRepository) GetBinByID(binID common.BinID) (*Bin, error) {
	var bin Bin
	err := r.db.Where("id = ?", binID).First(&bin).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "Bin", ID: string(binID)}
		}
		return nil, WrapRepositoryError(err, "get bin by ID")
	}

	return &bin, nil
}

// ListBinsByLocation retrieves all bins within a location ordered by name
func (r *gormRepository) ListBinsByLocation(locationID common.LocationID) ([]*Bin, error) {
	var bins []*Bin
	err := r.db.Where("location_id = ?", locationID).
		Order("name ASC").
		Find(&bins).Error

	if err != nil {
		return nil, WrapRepositoryError(err, "list bins by location")
	}

	r.logger.Debug("Retrieved bins",
		zap.String("locationID", string(locationID)),
		zap.Int("count", len(bins)))
	return bins, nil
}

// UpdateBin overwrites a bin record
func (r *gormRepository) UpdateBin(bin *Bin) error {
	if bin.Name == "" {
		return NewBinValidationError("name", bin.Name, "bin name is required")
	}

	bin.UpdatedAt = time.Now()

	// Save rather than Updates so cleared fields (notes, area) persist
	result := r.db.Model(&Bin{}).Where("id = ?", bin.ID).Select("*").Omit("created_at").Updates(bin)
	if result.Error != nil {
		return WrapRepositoryError(result.Error, "update bin")
	}

	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "Bin", ID: string(bin.ID)}
	}

	r.logger.Info("Bin updated", zap.String("binID", string(bin.ID)))
	return nil
}

// DeleteBin removes a bin record. Deletion is hard: callers wanting undo
// must capture the record first.
func (r *gormRepository) DeleteBin(binID common.BinID) error {
	result := r.db.Delete(&Bin{}, "id = ?", binID)
	if result.Error != nil {
		return WrapRepositoryError(result.Error, "delete bin")
	}

	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "Bin", ID: string(binID)}
	}

	r.logger.Info("Bin deleted", zap.String("binID", string(binID)))
	return nil
}

// Area operations

// CreateArea creates a new area
func (r *gormRepository) CreateArea(area *Area) error {
	if area.Name == "" {
		return NewBinValidationError("name", area.Name, "area name is required")
	}
	if area.LocationID == "" {
		return NewBinValidationError("location_id", area.LocationID, "location is required")
	}

	if area.ID == "" {
		area.ID = common.AreaID(common.NewID())
	}

	now := time.Now()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}
	area.UpdatedAt = now

	if err := r.db.Create(area).Error; err != nil {
		return WrapRepositoryError(err, "create area")
	}

	r.logger.Info("Area created",
		zap.String("areaID", string(area.ID)),
		zap.String("name", area.Name))
	return nil
}

// GetAreaByName retrieves an area by name, case-insensitively
func (r *gormRepository) GetAreaByName(locationID common.LocationID, name string) (*Area, error) {
	var area Area
	err := r.db.Where("location_id = ? AND LOWER(name) = LOWER(?)", locationID, name).
		First(&area).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "Area", ID: name}
		}
		return nil, WrapRepositoryError(err, "get area by name")
	}

	return &area, nil
}

// ListAreasByLocation retrieves all areas within a location ordered by name
func (r *gormRepository) ListAreasByLocation(locationID common.LocationID) ([]*Area, error) {
	var areas []*Area
	err := r.db.Where("location_id = ?", locationID).
		Order("name ASC").
		Find(&areas).Error

	if err != nil {
		return nil, WrapRepositoryError(err, "list areas by location")
	}

	return areas, nil
}

// Transaction support

// WithTransaction executes a function within a database transaction
func (r *gormRepository) WithTransaction(fn func(Repository) error) error {
	r.logger.Debug("Starting transaction")

	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &gormRepository{
			db:     tx,
			logger: r.logger,
		}

		err := fn(txRepo)
		if err != nil {
			r.logger.Debug("Transaction failed, rolling back", zap.Error(err))
			return err
		}

		return nil
	})
}
