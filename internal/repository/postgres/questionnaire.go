package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/lib/pq"
)

type questionnaireRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewQuestionnaireRepository(db *postgres.DB, logger *logger.Logger) questionnaire.Repository {
	return &questionnaireRepository{db: db, logger: logger}
}

// sessionRow carries the jsonb columns that the domain session keeps as structs
type sessionRow struct {
	questionnaire.Session
	PrescriptionJSON []byte `db:"prescription"`
	FrameJSON        []byte `db:"frame"`
}

type answerRow struct {
	SessionID  string         `db:"session_id"`
	QuestionID string         `db:"question_id"`
	OptionIDs  pq.StringArray `db:"option_ids"`
}

func (r *questionnaireRepository) GetSession(ctx context.Context, id string) (*questionnaire.Session, error) {
	query := `
		SELECT id, organization_id, store_id, customer_category, prescription, frame,
			status, created_at, updated_at
		FROM questionnaire_sessions
		WHERE organization_id = $1 AND id = $2`

	var row sessionRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, types.GetOrganizationID(ctx), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Session %s was not found", id).
				WithReportableDetails(map[string]any{"session_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load questionnaire session").
			Mark(ierr.ErrDatabase)
	}

	return row.decode()
}

func (row *sessionRow) decode() (*questionnaire.Session, error) {
	session := row.Session
	if len(row.PrescriptionJSON) > 0 {
		var rx prescription.Prescription
		if err := json.Unmarshal(row.PrescriptionJSON, &rx); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Session %s has an unreadable prescription", row.ID).
				Mark(ierr.ErrDatabase)
		}
		session.Prescription = &rx
	}
	if len(row.FrameJSON) > 0 {
		var f frame.Frame
		if err := json.Unmarshal(row.FrameJSON, &f); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Session %s has an unreadable frame", row.ID).
				Mark(ierr.ErrDatabase)
		}
		session.Frame = &f
	}
	return &session, nil
}

func (r *questionnaireRepository) ListAnswers(ctx context.Context, sessionID string) ([]*questionnaire.Answer, error) {
	query := `
		SELECT session_id, question_id, option_ids
		FROM questionnaire_answers
		WHERE session_id = $1
		ORDER BY question_id`

	var rows []answerRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load questionnaire answers").
			WithReportableDetails(map[string]any{"session_id": sessionID}).
			Mark(ierr.ErrDatabase)
	}

	answers := make([]*questionnaire.Answer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, &questionnaire.Answer{
			SessionID:  row.SessionID,
			QuestionID: row.QuestionID,
			OptionIDs:  []string(row.OptionIDs),
		})
	}
	return answers, nil
}

func (r *questionnaireRepository) ListAnswerBenefits(ctx context.Context, optionIDs []string) ([]*questionnaire.AnswerBenefit, error) {
	if len(optionIDs) == 0 {
		return []*questionnaire.AnswerBenefit{}, nil
	}

	query := `
		SELECT option_id, benefit_code, points, category_weight
		FROM answer_benefits
		WHERE option_id = ANY($1)
		ORDER BY option_id, benefit_code`

	var rows []*questionnaire.AnswerBenefit
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(optionIDs)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load answer benefits").
			Mark(ierr.ErrDatabase)
	}
	return rows, nil
}

func (r *questionnaireRepository) ListProductBoosts(ctx context.Context, optionIDs []string) ([]*questionnaire.ProductBoost, error) {
	if len(optionIDs) == 0 {
		return []*questionnaire.ProductBoost{}, nil
	}

	query := `
		SELECT option_id, product_id, boost
		FROM answer_product_boosts
		WHERE option_id = ANY($1)
		ORDER BY option_id, product_id`

	var rows []*questionnaire.ProductBoost
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(optionIDs)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load product boosts").
			Mark(ierr.ErrDatabase)
	}
	return rows, nil
}
