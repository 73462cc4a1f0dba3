package carmodels

import (
	"context"
	"errors"
	"testing"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	models map[string]CarModel
}

func newStubRepo() *stubRepo {
	return &stubRepo{models: map[string]CarModel{}}
}

func (s *stubRepo) Create(_ context.Context, brand, model string, year *int) (CarModel, error) {
	for _, cm := range s.models {
		if cm.Brand == brand && cm.Model == model {
			return CarModel{}, httpx.ErrDuplicate
		}
	}
	cm := CarModel{ID: "cm-" + brand + "-" + model, Brand: brand, Model: model, Year: year}
	s.models[cm.ID] = cm
	return cm, nil
}

func (s *stubRepo) List(context.Context, string, int, int) ([]CarModel, int, error) {
	out := make([]CarModel, 0, len(s.models))
	for _, cm := range s.models {
		out = append(out, cm)
	}
	return out, len(out), nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (CarModel, error) {
	cm, ok := s.models[id]
	if !ok {
		return CarModel{}, shared.ErrNotFound
	}
	return cm, nil
}

func (s *stubRepo) Update(_ context.Context, id, brand, model string, year *int) (CarModel, error) {
	cm, ok := s.models[id]
	if !ok {
		return CarModel{}, shared.ErrNotFound
	}
	cm.Brand, cm.Model, cm.Year = brand, model, year
	s.models[id] = cm
	return cm, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.models[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.models, id)
	return nil
}

var actor = shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

func TestCreateRejectsDuplicates(t *testing.T) {
	svc := NewService(newStubRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, actor, "Chevrolet", "Cobalt", nil); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, actor, " Chevrolet ", " Cobalt ", nil); !errors.Is(err, httpx.ErrDuplicate) {
		t.Fatalf("err = %v, want %v", err, httpx.ErrDuplicate)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newStubRepo(), nil)
	ctx := context.Background()
	badYear := 1899

	cases := []struct {
		name  string
		brand string
		model string
		year  *int
	}{
		{"blank brand", "  ", "Cobalt", nil},
		{"blank model", "Chevrolet", "", nil},
		{"implausible year", "Chevrolet", "Cobalt", &badYear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, actor, tc.brand, tc.model, tc.year); !errors.Is(err, httpx.ErrValidation) {
				t.Fatalf("err = %v, want %v", err, httpx.ErrValidation)
			}
		})
	}
}

func TestDeleteMissingModel(t *testing.T) {
	svc := NewService(newStubRepo(), nil)
	if err := svc.Delete(context.Background(), actor, "cm-missing"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, shared.ErrNotFound)
	}
}
