package service

import (
	"context"

	"github.com/lensprice/lensprice/internal/api/dto"
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/samber/lo"
)

// PrescriptionService checks prescriptions before they reach the engine
type PrescriptionService interface {
	Validate(ctx context.Context, req dto.ValidatePrescriptionRequest) (*dto.ValidatePrescriptionResponse, error)
}

type prescriptionService struct {
	ServiceParams
}

func NewPrescriptionService(params ServiceParams) PrescriptionService {
	return &prescriptionService{ServiceParams: params}
}

// Validate reports violations and previews the index tier. It never rejects
// the prescription; blocking is up to the caller.
func (s *prescriptionService) Validate(ctx context.Context, req dto.ValidatePrescriptionRequest) (*dto.ValidatePrescriptionResponse, error) {
	if req.Frame != nil {
		if err := req.Frame.Validate(); err != nil {
			return nil, err
		}
	}

	rx := &req.Prescription
	violations := rx.Validate()
	if violations == nil {
		violations = []prescription.Violation{}
	}

	maxPower, ok := rx.MaxPower()
	resp := &dto.ValidatePrescriptionResponse{
		Valid:            len(violations) == 0,
		Violations:       violations,
		VisionType:       rx.VisionType(),
		RecommendedIndex: RecommendIndex(maxPower, ok, req.Frame).String(),
	}
	if ok {
		resp.MaxPower = lo.ToPtr(maxPower)
	}

	if !resp.Valid {
		s.Logger.Debugw("prescription has out of range powers", "violations", violations)
	}
	return resp, nil
}
