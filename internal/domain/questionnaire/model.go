package questionnaire

import (
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
)

// Session is a customer's questionnaire run, with the prescription and frame
// captured alongside it
type Session struct {
	ID               string                     `json:"id" db:"id"`
	StoreID          string                     `json:"store_id" db:"store_id"`
	CustomerCategory string                     `json:"customer_category,omitempty" db:"customer_category"`
	Prescription     *prescription.Prescription `json:"prescription,omitempty" db:"-"`
	Frame            *frame.Frame               `json:"frame,omitempty" db:"-"`

	types.BaseModel
}

// Answer is the set of options a customer selected for one question
type Answer struct {
	SessionID  string   `json:"session_id" db:"session_id"`
	QuestionID string   `json:"question_id" db:"question_id"`
	OptionIDs  []string `json:"option_ids" db:"option_ids"`
}

// AnswerBenefit maps a selected option to benefit points
type AnswerBenefit struct {
	OptionID    string  `json:"option_id" db:"option_id"`
	BenefitCode string  `json:"benefit_code" db:"benefit_code"`
	Points      float64 `json:"points" db:"points"`
	// CategoryWeight scales Points by the question category; nil means 1
	CategoryWeight *float64 `json:"category_weight,omitempty" db:"category_weight"`
}

// ProductBoost adds points directly to a product when an option is selected
type ProductBoost struct {
	OptionID  string  `json:"option_id" db:"option_id"`
	ProductID string  `json:"product_id" db:"product_id"`
	Boost     float64 `json:"boost" db:"boost"`
}

func (a AnswerBenefit) Weight() float64 {
	if a.CategoryWeight == nil {
		return 1
	}
	return *a.CategoryWeight
}

// SelectedOptionIDs flattens answers into a de-duplicated option id set
func SelectedOptionIDs(answers []*Answer) []string {
	ids := make([]string, 0)
	for _, a := range answers {
		ids = append(ids, a.OptionIDs...)
	}
	return lo.Uniq(ids)
}
