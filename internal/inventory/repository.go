package inventory

import (
	"binhoard-api/internal/common"
)

// Repository defines the persistence boundary for bins and areas. The
// assistant executor treats this as its external collaborator: it owns
// identifier assignment (except where the caller supplies one, e.g. an
// undo recreate) and short-code uniqueness.
type Repository interface {
	// Bin operations
	CreateBin(bin *Bin) error
	GetBinByID(binID common.BinID) (*Bin, error)
	ListBinsByLocation(locationID common.LocationID) ([]*Bin, error)
	UpdateBin(bin *Bin) error
	DeleteBin(binID common.BinID) error

	// Area operations
	CreateArea(area *Area) error
	GetAreaByName(locationID common.LocationID, name string) (*Area, error)
	ListAreasByLocation(locationID common.LocationID) ([]*Area, error)

	// Transaction support
	WithTransaction(fn func(Repository) error) error
}
