package inventory

import (
	"strings"
	"sync"
	"time"

	"binhoard-api/internal/common"
)

// MockRepository provides an in-memory Repository implementation for testing
type MockRepository struct {
	mu    sync.Mutex
	bins  map[common.BinID]*Bin
	areas map[common.AreaID]*Area

	CreateBinError  error
	GetBinError     error
	UpdateBinError  error
	DeleteBinError  error
	CreateAreaError error
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		bins:  make(map[common.BinID]*Bin),
		areas: make(map[common.AreaID]*Area),
	}
}

func (m *MockRepository) CreateBin(bin *Bin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateBinError != nil {
		return m.CreateBinError
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

	stored := *bin
	m.bins[bin.ID] = &stored
	return nil
}

func (m *MockRepository) GetBinByID(binID common.BinID) (*Bin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetBinError != nil {
		return nil, m.GetBinError
	}
	if bin, exists := m.bins[binID]; exists {
		copied := *bin
		return &copied, nil
	}
	return nil, common.NotFoundError{Resource: "Bin", ID: string(binID)}
}

func (m *MockRepository) ListBinsByLocation(locationID common.LocationID) ([]*Bin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bins []*Bin
	for _, bin := range m.bins {
		if bin.LocationID == locationID {
			copied := *bin
			bins = append(bins, &copied)
		}
	}
	return bins, nil
}

func (m *MockRepository) UpdateBin(bin *Bin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateBinError != nil {
		return m.UpdateBinError
	}
	if _, exists := m.bins[bin.ID]; !exists {
		return common.NotFoundError{Resource: "Bin", ID: string(bin.ID)}
	}
	bin.UpdatedAt = time.Now()
	stored := *bin
	m.bins[bin.ID] = &stored
	return nil
}

func (m *MockRepository) DeleteBin(binID common.BinID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteBinError != nil {
		return m.DeleteBinError
	}
	if _, exists := m.bins[binID]; !exists {
		return common.NotFoundError{Resource: "Bin", ID: string(binID)}
	}
	delete(m.bins, binID)
	return nil
}

func (m *MockRepository) CreateArea(area *Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateAreaError != nil {
		return m.CreateAreaError
	}
	if area.ID == "" {
		area.ID = common.AreaID(common.NewID())
	}
	now := time.Now()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}
	area.UpdatedAt = now

	stored := *area
	m.areas[area.ID] = &stored
	return nil
}

func (m *MockRepository) GetAreaByName(locationID common.LocationID, name string) (*Area, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, area := range m.areas {
		if area.LocationID == locationID && strings.EqualFold(area.Name, name) {
			copied := *area
			return &copied, nil
		}
	}
	return nil, common.NotFoundError{Resource: "Area", ID: name}
}

func (m *MockRepository) ListAreasByLocation(locationID common.LocationID) ([]*Area, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var areas []*Area
	for _, area := range m.areas {
		if area.LocationID == locationID {
			copied := *area
			areas = append(areas, &copied)
		}
	}
	return areas, nil
}

func (m *MockRepository) WithTransaction(fn func(Repository) error) error {
	return fn(m)
}
