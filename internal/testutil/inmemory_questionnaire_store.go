package testutil

import (
	"context"
	"sync"

	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// InMemoryQuestionnaireStore implements questionnaire.Repository
type InMemoryQuestionnaireStore struct {
	*InMemoryStore[*questionnaire.Session]
	CallCounter

	mu       sync.RWMutex
	answers  map[string][]*questionnaire.Answer
	benefits []*questionnaire.AnswerBenefit
	boosts   []*questionnaire.ProductBoost
}

func NewInMemoryQuestionnaireStore() *InMemoryQuestionnaireStore {
	return &InMemoryQuestionnaireStore{
		InMemoryStore: NewInMemoryStore[*questionnaire.Session](),
		answers:       make(map[string][]*questionnaire.Answer),
	}
}

func (s *InMemoryQuestionnaireStore) AddSession(ctx context.Context, session *questionnaire.Session, answers ...*questionnaire.Answer) error {
	if err := s.Create(ctx, session.ID, session); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[session.ID] = append(s.answers[session.ID], answers...)
	return nil
}

func (s *InMemoryQuestionnaireStore) AddAnswerBenefits(benefits ...*questionnaire.AnswerBenefit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benefits = append(s.benefits, benefits...)
}

func (s *InMemoryQuestionnaireStore) AddProductBoosts(boosts ...*questionnaire.ProductBoost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boosts = append(s.boosts, boosts...)
}

func (s *InMemoryQuestionnaireStore) GetSession(ctx context.Context, id string) (*questionnaire.Session, error) {
	s.record("GetSession")
	session, err := s.Get(ctx, id)
	if err != nil || !CheckOrganizationFilter(ctx, session.OrganizationID) {
		return nil, ierr.NewError("session not found").
			WithHintf("Session %s was not found", id).
			WithReportableDetails(map[string]any{
				"session_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return session, nil
}

func (s *InMemoryQuestionnaireStore) ListAnswers(ctx context.Context, sessionID string) ([]*questionnaire.Answer, error) {
	s.record("ListAnswers")
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*questionnaire.Answer(nil), s.answers[sessionID]...), nil
}

func (s *InMemoryQuestionnaireStore) ListAnswerBenefits(ctx context.Context, optionIDs []string) ([]*questionnaire.AnswerBenefit, error) {
	s.record("ListAnswerBenefits")
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.benefits, func(b *questionnaire.AnswerBenefit, _ int) bool {
		return lo.Contains(optionIDs, b.OptionID)
	}), nil
}

func (s *InMemoryQuestionnaireStore) ListProductBoosts(ctx context.Context, optionIDs []string) ([]*questionnaire.ProductBoost, error) {
	s.record("ListProductBoosts")
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.boosts, func(b *questionnaire.ProductBoost, _ int) bool {
		return lo.Contains(optionIDs, b.OptionID)
	}), nil
}

func (s *InMemoryQuestionnaireStore) Clear() {
	s.InMemoryStore.Clear()
	s.ResetCalls()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = make(map[string][]*questionnaire.Answer)
	s.benefits = nil
	s.boosts = nil
}
