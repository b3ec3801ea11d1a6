package amenity

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name       string
	PriceCents int64
}

type UpdateRequest struct {
	Name       *string
	PriceCents *int64
	IsActive   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Amenity, error)
	GetByID(ctx context.Context, id string) (*Amenity, error)
	List(ctx context.Context, filter Filter) ([]*Amenity, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Amenity, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Amenity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	a := &Amenity{
		Name:       strings.TrimSpace(req.Name),
		PriceCents: req.PriceCents,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Amenity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Amenity, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Amenity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		a.PriceCents = *req.PriceCents
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
