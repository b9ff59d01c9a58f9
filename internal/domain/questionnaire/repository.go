package questionnaire

import "context"

// Repository is the session/answer store
type Repository interface {
	GetSession(ctx context.Context, id string) (*Session, error)
	ListAnswers(ctx context.Context, sessionID string) ([]*Answer, error)
	ListAnswerBenefits(ctx context.Context, optionIDs []string) ([]*AnswerBenefit, error)
	ListProductBoosts(ctx context.Context, optionIDs []string) ([]*ProductBoost, error)
}
