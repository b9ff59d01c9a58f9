package postgres

import (
	"context"

	"github.com/lensprice/lensprice/internal/domain/offer"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/types"
)

type offerRuleRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOfferRuleRepository(db *postgres.DB, logger *logger.Logger) offer.Repository {
	return &offerRuleRepository{db: db, logger: logger}
}

type offerRuleRow struct {
	offer.OfferRule
	EligibilityJSON []byte `db:"eligibility"`
	ConfigJSON      []byte `db:"config"`
	UpsellJSON      []byte `db:"upsell"`
}

// ListActive loads the organization's active rules. A rule whose config does
// not decode or validate is logged and left out rather than failing the load.
func (r *offerRuleRepository) ListActive(ctx context.Context) ([]*offer.OfferRule, error) {
	query := `
		SELECT id, organization_id, code, name, type, priority, eligibility, config, upsell,
			status, created_at, updated_at
		FROM offer_rules
		WHERE organization_id = $1 AND status = $2
		ORDER BY priority, code`

	var rows []offerRuleRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, types.GetOrganizationID(ctx), types.StatusActive); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load offer rules").
			Mark(ierr.ErrDatabase)
	}

	return decodeOfferRules(rows, r.logger), nil
}

// decodeOfferRules keeps the rows that decode and validate, in order
func decodeOfferRules(rows []offerRuleRow, log *logger.Logger) []*offer.OfferRule {
	rules := make([]*offer.OfferRule, 0, len(rows))
	for i := range rows {
		rule, err := rows[i].decode()
		if err != nil {
			log.Warnw("skipping invalid offer rule",
				"rule_id", rows[i].ID,
				"code", rows[i].Code,
				"type", rows[i].Type,
				"error", err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func (row *offerRuleRow) decode() (*offer.OfferRule, error) {
	rule := row.OfferRule

	if len(row.EligibilityJSON) > 0 {
		if err := json.Unmarshal(row.EligibilityJSON, &rule.Eligibility); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Offer rule eligibility is not valid JSON").
				Mark(ierr.ErrValidation)
		}
	}
	if len(row.UpsellJSON) > 0 {
		if err := json.Unmarshal(row.UpsellJSON, &rule.Upsell); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Offer rule upsell is not valid JSON").
				Mark(ierr.ErrValidation)
		}
	}

	cfg, err := offer.DecodeConfig(rule.Type, row.ConfigJSON)
	if err != nil {
		return nil, err
	}
	rule.Config = cfg

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return &rule, nil
}
