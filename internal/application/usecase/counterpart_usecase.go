package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor activo.
func (uc *SupplierUseCase) Create(in dto.CreateCounterpartRequest) (*dto.CounterpartResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, IsActive: s.IsActive, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}, nil
}

// Update actualiza nombre, teléfono o estado activo de un proveedor.
func (uc *SupplierUseCase) Update(id string, in dto.UpdateCounterpartRequest) (*dto.CounterpartResponse, error) {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(s); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, IsActive: s.IsActive, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}, nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(limit, offset int) (*dto.CounterpartListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.CounterpartResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, IsActive: s.IsActive, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt})
	}
	return &dto.CounterpartListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// BeneficiaryUseCase casos de uso CRUD para beneficiarios.
type BeneficiaryUseCase struct {
	repo repository.BeneficiaryRepository
}

// NewBeneficiaryUseCase construye el caso de uso.
func NewBeneficiaryUseCase(repo repository.BeneficiaryRepository) *BeneficiaryUseCase {
	return &BeneficiaryUseCase{repo: repo}
}

// Create crea un beneficiario activo.
func (uc *BeneficiaryUseCase) Create(in dto.CreateCounterpartRequest) (*dto.CounterpartResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.Beneficiary{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(b); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: b.ID, Name: b.Name, Phone: b.Phone, IsActive: b.IsActive, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}, nil
}

// Update actualiza un beneficiario.
func (uc *BeneficiaryUseCase) Update(id string, in dto.UpdateCounterpartRequest) (*dto.CounterpartResponse, error) {
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(b); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: b.ID, Name: b.Name, Phone: b.Phone, IsActive: b.IsActive, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}, nil
}

// List lista beneficiarios con paginación.
func (uc *BeneficiaryUseCase) List(limit, offset int) (*dto.CounterpartListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.CounterpartResponse{ID: b.ID, Name: b.Name, Phone: b.Phone, IsActive: b.IsActive, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt})
	}
	return &dto.CounterpartListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// StationUseCase casos de uso CRUD para estaciones.
type StationUseCase struct {
	repo repository.StationRepository
}

// NewStationUseCase construye el caso de uso.
func NewStationUseCase(repo repository.StationRepository) *StationUseCase {
	return &StationUseCase{repo: repo}
}

// Create crea una estación activa.
func (uc *StationUseCase) Create(in dto.CreateCounterpartRequest) (*dto.CounterpartResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	st := &entity.Station{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(st); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: st.ID, Name: st.Name, Location: st.Location, IsActive: st.IsActive, CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt}, nil
}

// Update actualiza una estación.
func (uc *StationUseCase) Update(id string, in dto.UpdateCounterpartRequest) (*dto.CounterpartResponse, error) {
	st, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.IsActive != nil {
		st.IsActive = *in.IsActive
	}
	st.UpdatedAt = time.Now()
	if err := uc.repo.Update(st); err != nil {
		return nil, err
	}
	return &dto.CounterpartResponse{ID: st.ID, Name: st.Name, Location: st.Location, IsActive: st.IsActive, CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt}, nil
}

// List lista estaciones con paginación.
func (uc *StationUseCase) List(limit, offset int) (*dto.CounterpartListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartResponse, 0, len(list))
	for _, st := range list {
		items = append(items, dto.CounterpartResponse{ID: st.ID, Name: st.Name, Location: st.Location, IsActive: st.IsActive, CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt})
	}
	return &dto.CounterpartListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}
