package service

import (
	"strings"
	"testing"

	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func newRule(id string, offerType types.OfferType, priority int, cfg offer.RuleConfig) *offer.OfferRule {
	return &offer.OfferRule{
		ID:       id,
		Code:     strings.ToUpper(id),
		Name:     id,
		Type:     offerType,
		Priority: priority,
		Config:   cfg,
		BaseModel: types.BaseModel{
			OrganizationID: types.DefaultOrganizationID,
			Status:         types.StatusActive,
		},
	}
}
