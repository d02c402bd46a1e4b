// Package service contains the business logic for the travel aggregator gateway.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage code lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/travel-aggregator/internal/domain"
	"github.com/pkordes/travel-aggregator/internal/repo"
)

// RecordService implements the write and list paths for travel records.
type RecordService struct {
	repo     repo.RecordRepo
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a RecordService.
type Option func(*RecordService)

// WithClock overrides the source of StoredAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *RecordService) { s.now = now }
}

// NewRecordService constructs a RecordService backed by the provided RecordRepo.
func NewRecordService(r repo.RecordRepo, opts ...Option) *RecordService {
	s := &RecordService{
		repo:     r,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the payload, stamps a UUIDv7 ID and the server write time,
// and appends the record.
// Returns domain.ErrValidation if a required field is missing. Nothing is
// written in that case.
func (s *RecordService) Create(ctx context.Context, in domain.NewTravelRecord) (domain.TravelRecord, error) {
	if err := s.validateRecord(in); err != nil {
		return domain.TravelRecord{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("service.RecordService.Create: generate id: %w", err)
	}

	rec := domain.TravelRecord{
		ID:                 id,
		Country:            in.Country,
		Capital:            in.Capital,
		Population:         in.Population.Value,
		Temperature:        in.Temperature.Value,
		WeatherDescription: in.WeatherDescription,
		CapitalDetails:     in.CapitalDetails,
		StoredAt:           s.now().UTC(),
	}

	result, err := s.repo.Create(ctx, rec)
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	return result, nil
}

// List returns all records, newest first.
// Always returns a non-nil slice so an empty store encodes as [].
func (s *RecordService) List(ctx context.Context) ([]domain.TravelRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.List: %w", err)
	}
	if records == nil {
		return []domain.TravelRecord{}, nil
	}
	return records, nil
}

// validateRecord enforces the presence rules: country and capital must be
// non-empty strings; population and temperature keys must be present, where
// both 0 and null count.
func (s *RecordService) validateRecord(in domain.NewTravelRecord) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("service.RecordService.Create: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(fields, ", "))
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// required on an OptionalFloat checks that the key was sent, not its value.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(domain.OptionalFloat).Set
	}, domain.OptionalFloat{})
	return v
}
