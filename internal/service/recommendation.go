package service

import (
	"context"
	"sort"

	"github.com/lensprice/lensprice/internal/api/dto"
	"github.com/lensprice/lensprice/internal/cache"
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
)

// RecommendationService ranks catalog lenses for a questionnaire session
type RecommendationService interface {
	GenerateRecommendations(ctx context.Context, sessionID string) (*dto.RecommendationResponse, error)
	InvalidateSession(ctx context.Context, sessionID string)
}

type recommendationService struct {
	ServiceParams
	selector *LensSelector
}

func NewRecommendationService(params ServiceParams) RecommendationService {
	if params.Cache == nil {
		params.Cache = cache.NewNoopCache()
	}
	return &recommendationService{
		ServiceParams: params,
		selector:      NewLensSelector(params.Config.Engine),
	}
}

func (s *recommendationService) cacheKey(ctx context.Context, sessionID string) string {
	return cache.GenerateKey(cache.PrefixRecommendation, types.GetOrganizationID(ctx), sessionID)
}

// GenerateRecommendations is read-through cached per session. Missing
// answers or candidates give an empty list, not an error.
func (s *recommendationService) GenerateRecommendations(ctx context.Context, sessionID string) (*dto.RecommendationResponse, error) {
	if sessionID == "" {
		return nil, ierr.NewError("session_id is required").
			WithHint("Please provide a session id").
			Mark(ierr.ErrValidation)
	}

	key := s.cacheKey(ctx, sessionID)
	if cached, ok := cache.GetAs[dto.RecommendationResponse](ctx, s.Cache, key); ok {
		s.Logger.Debugw("serving cached recommendations", "session_id", sessionID)
		return cached, nil
	}

	span, ctx := s.Sentry.StartEngineSpan(ctx, "generate_recommendations", map[string]interface{}{
		"session_id": sessionID,
	})
	if span != nil {
		defer span.Finish()
	}

	resp, err := s.generate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, resp, s.Config.Cache.TTL())
	return resp, nil
}

func (s *recommendationService) InvalidateSession(ctx context.Context, sessionID string) {
	s.Cache.Delete(ctx, s.cacheKey(ctx, sessionID))
}

func (s *recommendationService) generate(ctx context.Context, sessionID string) (*dto.RecommendationResponse, error) {
	session, err := s.QuestionnaireRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rx := session.Prescription
	if violations := rx.Validate(); len(violations) > 0 {
		s.Logger.Warnw("prescription outside physiological range",
			"session_id", sessionID,
			"violations", violations)
	}

	maxPower, hasPower := rx.MaxPower()
	tier := RecommendIndex(maxPower, hasPower, session.Frame)

	resp := &dto.RecommendationResponse{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECOMMENDATION),
		SessionID:            sessionID,
		VisionType:           rx.VisionType(),
		RecommendedIndex:     tier.String(),
		RecommendedIndexTier: tier,
		BenefitScores:        map[string]float64{},
		Recommendations:      []dto.LensRecommendation{},
		GeneratedAt:          s.now(),
	}

	answers, err := s.QuestionnaireRepo.ListAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	optionIDs := questionnaire.SelectedOptionIDs(answers)
	if len(optionIDs) == 0 {
		s.Logger.Infow("session has no answers, returning empty recommendations", "session_id", sessionID)
		return resp, nil
	}

	mappings, err := s.QuestionnaireRepo.ListAnswerBenefits(ctx, optionIDs)
	if err != nil {
		return nil, err
	}
	scores := BuildBenefitScores(mappings)
	resp.BenefitScores = scores

	boostRows, err := s.QuestionnaireRepo.ListProductBoosts(ctx, optionIDs)
	if err != nil {
		return nil, err
	}
	boosts := ProductBoosts(boostRows)

	products, overrides, err := s.loadCandidates(ctx, session, resp.VisionType)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		s.Logger.Infow("no candidate lenses for session",
			"session_id", sessionID,
			"vision_type", resp.VisionType)
		return resp, nil
	}

	candidates := s.priceCandidates(products, overrides, rx, session.Frame, scores, boosts)
	AssignMatchPercents(candidates)

	resp.ScoresDegenerate = ScoresDegenerate(lo.Map(candidates, func(c *pricing.LensCandidate, _ int) float64 {
		return c.FinalScore
	}))
	if resp.ScoresDegenerate {
		s.Logger.Warnw("all candidate lenses share one score, benefit strengths are not differentiated",
			"session_id", sessionID,
			"candidates", len(candidates))
	}

	selection := s.selector.Select(candidates, tier)
	resp.Selection = dto.NewLensSelection(selection)
	resp.Recommendations = buildRecommendations(candidates, selection)

	s.Logger.Infow("generated recommendations",
		"session_id", sessionID,
		"recommended_index", resp.RecommendedIndex,
		"candidates", len(candidates))

	return resp, nil
}

// loadCandidates issues one bulk read per entity type for the whole candidate
// id set. Ids missing from the product read and out of stock products are dropped.
func (s *recommendationService) loadCandidates(ctx context.Context, session *questionnaire.Session, visionType types.VisionType) ([]*product.LensProduct, map[string]*product.StoreOverride, error) {
	ids, err := s.ProductRepo.ListCandidateIDs(ctx, product.CandidateFilter{VisionType: visionType})
	if err != nil {
		return nil, nil, err
	}
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil, nil
	}

	var (
		products   []*product.LensProduct
		benefits   map[string][]product.BenefitStrength
		features   map[string][]string
		powerBands map[string][]product.PowerBand
		addonBands map[string][]product.RxAddonBand
		overrides  map[string]*product.StoreOverride
		storeID    = session.StoreID
		readers    = pool.New().WithErrors().WithContext(ctx)
	)

	readers.Go(func(ctx context.Context) (err error) {
		products, err = s.ProductRepo.GetByIDs(ctx, ids)
		return err
	})
	readers.Go(func(ctx context.Context) (err error) {
		benefits, err = s.ProductRepo.ListBenefitsByProductIDs(ctx, ids)
		return err
	})
	readers.Go(func(ctx context.Context) (err error) {
		features, err = s.ProductRepo.ListFeaturesByProductIDs(ctx, ids)
		return err
	})
	readers.Go(func(ctx context.Context) (err error) {
		powerBands, err = s.ProductRepo.ListPowerBandsByProductIDs(ctx, ids)
		return err
	})
	readers.Go(func(ctx context.Context) (err error) {
		addonBands, err = s.ProductRepo.ListRxAddonBandsByProductIDs(ctx, ids)
		return err
	})
	if storeID != "" {
		readers.Go(func(ctx context.Context) (err error) {
			overrides, err = s.ProductRepo.ListStoreOverrides(ctx, storeID, ids)
			return err
		})
	}
	if err := readers.Wait(); err != nil {
		return nil, nil, err
	}

	byID := lo.KeyBy(products, func(p *product.LensProduct) string { return p.ID })
	out := make([]*product.LensProduct, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			s.Logger.Warnw("candidate lens missing from catalog, dropping it",
				"session_id", session.ID,
				"product_id", id)
			continue
		}
		if o, ok := overrides[id]; ok && !o.InStock {
			s.Logger.Debugw("candidate lens out of stock at store",
				"store_id", storeID,
				"product_code", p.Code)
			continue
		}

		// copy so sub-records never leak into a shared catalog object
		lens := *p
		lens.Benefits = benefits[id]
		lens.Features = features[id]
		lens.PowerBands = sortedPowerBands(powerBands[id])
		lens.RxAddonBands = sortedAddonBands(addonBands[id])
		out = append(out, &lens)
	}

	return out, overrides, nil
}

// priceCandidates scores and prices every lens. Lenses are independent, so
// the work is spread over goroutines; the output keeps the input order.
func (s *recommendationService) priceCandidates(
	products []*product.LensProduct,
	overrides map[string]*product.StoreOverride,
	rx *prescription.Prescription,
	f *frame.Frame,
	scores BenefitScoreMap,
	boosts map[string]float64,
) []*pricing.LensCandidate {
	policy := s.Config.Engine.StackingPolicy()
	weight := s.Config.Engine.BenefitPointWeight()

	return iter.Map(products, func(pp **product.LensProduct) *pricing.LensCandidate {
		p := *pp
		base := p.BasePrice(overrides[p.ID])
		band := CalculateBandCharge(rx, p.PowerBands)
		addon := CalculateRxAddon(rx, p.RxAddonBands, policy)

		return &pricing.LensCandidate{
			Product:     p,
			FinalScore:  ScoreProduct(scores, p, boosts, weight),
			BasePrice:   base,
			BandCharge:  band,
			AddonCharge: addon.Charge,
			Price:       base.Add(band).Add(addon.Charge),
			Invalid:     IsInvalidLensForFrame(p.IndexTier, f),
		}
	})
}

// buildRecommendations lists candidates by score, best first, tagging the slots each fills
func buildRecommendations(candidates []*pricing.LensCandidate, selection *pricing.FourLensSelection) []dto.LensRecommendation {
	slotsByProduct := make(map[string][]types.LensSlot)
	if selection != nil {
		for _, slot := range []types.LensSlot{
			types.LensSlotBestMatch,
			types.LensSlotPremium,
			types.LensSlotValue,
			types.LensSlotAntiWalkout,
		} {
			if c := selection.Slots()[slot]; c != nil {
				slotsByProduct[c.Product.ID] = append(slotsByProduct[c.Product.ID], slot)
			}
		}
	}

	ranked := rankByScore(candidates)
	out := make([]dto.LensRecommendation, 0, len(ranked))
	for _, c := range ranked {
		rec := dto.NewLensRecommendation(c)
		rec.Slots = slotsByProduct[c.Product.ID]
		out = append(out, rec)
	}
	return out
}

func sortedPowerBands(bands []product.PowerBand) []product.PowerBand {
	bands = append([]product.PowerBand(nil), bands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].SortOrder < bands[j].SortOrder })
	return bands
}

func sortedAddonBands(bands []product.RxAddonBand) []product.RxAddonBand {
	bands = append([]product.RxAddonBand(nil), bands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].SortOrder < bands[j].SortOrder })
	return bands
}
