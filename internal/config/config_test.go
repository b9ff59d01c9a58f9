package config

import (
	"testing"
	"time"

	"github.com/lensprice/lensprice/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineConfigDefaults(t *testing.T) {
	var e EngineConfig

	assert.Equal(t, types.StackingPolicyHighestOnly, e.StackingPolicy())
	assert.Equal(t, 1.0, e.BenefitPointWeight())
	assert.Equal(t, "40", e.FreeLensPercentLimit().String())
	assert.Equal(t, "50", e.SecondPairPercent().String())
	assert.Equal(t, 40, e.AntiWalkoutMinMatch())
	assert.Equal(t, 10, e.PremiumWindow())
	assert.Equal(t, "₹", e.Currency())
	assert.Equal(t, DefaultRecommendationTTL, CacheConfig{}.TTL())
}

func TestEngineConfigOverrides(t *testing.T) {
	e := EngineConfig{
		AddonStackingPolicy:         types.StackingPolicySumAll,
		DefaultBenefitPointWeight:   1.5,
		FreeLensDefaultPercentLimit: 30,
		SecondPairDefaultPercent:    25,
		AntiWalkoutMinMatchPercent:  55,
		PremiumMatchWindow:          5,
		CurrencySymbol:              "Rs ",
	}

	assert.Equal(t, types.StackingPolicySumAll, e.StackingPolicy())
	assert.Equal(t, 1.5, e.BenefitPointWeight())
	assert.Equal(t, "30", e.FreeLensPercentLimit().String())
	assert.Equal(t, "25", e.SecondPairPercent().String())
	assert.Equal(t, 55, e.AntiWalkoutMinMatch())
	assert.Equal(t, 5, e.PremiumWindow())
	assert.Equal(t, "Rs ", e.Currency())
	assert.Equal(t, 5*time.Minute, CacheConfig{RecommendationTTL: 5 * time.Minute}.TTL())
}

func TestValidate(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Engine.AddonStackingPolicy = "LOWEST_ONLY"
	assert.Error(t, cfg.Validate())

	cfg = GetDefaultConfig()
	cfg.Server.Address = ""
	assert.Error(t, cfg.Validate())
}
