package viewmodel_test

import (
	"testing"

	"github.com/dest-sports/backoffice/internal/viewmodel"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSupportRequestAliasPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		audience string
		row      map[string]any
		want     string
	}{
		{
			"audience-specific name wins",
			viewmodel.AudiencePartner,
			map[string]any{"partner_name": "Ace Academy", "entity_name": "Old", "name": "Older"},
			"Ace Academy",
		},
		{
			"entity_name when specific absent",
			viewmodel.AudiencePartner,
			map[string]any{"entity_name": "Ace Academy", "name": "Older"},
			"Ace Academy",
		},
		{
			"bare name last",
			viewmodel.AudienceCustomer,
			map[string]any{"name": "Priya"},
			"Priya",
		},
		{
			"empty strings do not win",
			viewmodel.AudienceCustomer,
			map[string]any{"customer_name": "   ", "entity_name": "Priya"},
			"Priya",
		},
		{
			"nothing present",
			viewmodel.AudiencePartner,
			map[string]any{},
			"Unknown",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := viewmodel.NormalizeSupportRequest(tc.row, tc.audience)
			assert.Equal(t, tc.want, s.EntityName)
		})
	}
}

func TestNormalizeSupportRequestAudience(t *testing.T) {
	p := viewmodel.NormalizeSupportRequest(map[string]any{"id": "s-1"}, viewmodel.AudiencePartner)
	c := viewmodel.NormalizeSupportRequest(map[string]any{"id": "s-2"}, viewmodel.AudienceCustomer)

	assert.Equal(t, "Partner", p.TypeLabel)
	assert.Equal(t, "Customer", c.TypeLabel)
}

func TestNormalizeSupportRequestResolution(t *testing.T) {
	open := viewmodel.NormalizeSupportRequest(map[string]any{"id": "s-1"}, viewmodel.AudiencePartner)
	resolved := viewmodel.NormalizeSupportRequest(map[string]any{
		"id":       "s-2",
		"resolved": true,
		"solution": "refunded the booking",
	}, viewmodel.AudiencePartner)

	assert.False(t, open.Resolved)
	assert.Contains(t, open.SearchIndex, "open")
	assert.True(t, resolved.Resolved)
	assert.Contains(t, resolved.SearchIndex, "resolved")
	assert.Contains(t, resolved.SearchIndex, "refunded the booking")
}
