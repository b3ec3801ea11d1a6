package room

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name      string
	RateCents int64
	Capacity  int
}

type UpdateRequest struct {
	Name      *string
	RateCents *int64
	Capacity  *int
	Status    *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)
	Delete(ctx context.Context, id string) error

	// SetOperationalStatus flips the derived catalog marker. Used by the
	// booking module on check-in/check-out; not exposed as its own endpoint.
	SetOperationalStatus(ctx context.Context, id string, status OperationalStatus) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.RateCents < 0 {
		return nil, ErrInvalidRate
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCap
	}

	r := &Room{
		Name:      strings.TrimSpace(req.Name),
		RateCents: req.RateCents,
		Capacity:  req.Capacity,
		Status:    StatusAvailable,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		r.Name = strings.TrimSpace(*req.Name)
	}
	if req.RateCents != nil {
		if *req.RateCents < 0 {
			return nil, ErrInvalidRate
		}
		r.RateCents = *req.RateCents
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCap
		}
		r.Capacity = *req.Capacity
	}
	if req.Status != nil {
		st := OperationalStatus(*req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		r.Status = st
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SetOperationalStatus(ctx context.Context, id string, status OperationalStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.SetStatus(ctx, id, status)
}
