package ui

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskBadge(t *testing.T) {
	cases := []struct {
		level string
		class string
		text  string
	}{
		{"high", "badge bg-danger", "High Risk"},
		{"medium", "badge bg-warning text-dark", "Medium Risk"},
		{"low", "badge bg-success", "Low Risk"},
		{"critical", "badge bg-secondary", "Unknown"},
		{"HIGH", "badge bg-secondary", "Unknown"},
		{"", "badge bg-secondary", "Unknown"},
	}
	for _, tc := range cases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(RiskBadge(tc.level))))
		require.NoError(t, err)
		span := doc.Find("span.badge")
		require.Equal(t, 1, span.Length(), tc.level)
		class, _ := span.Attr("class")
		assert.Equal(t, tc.class, class, tc.level)
		assert.Equal(t, tc.text, span.Text(), tc.level)
		assert.Equal(t, tc.text, BadgeText(tc.level), tc.level)
	}
}

func TestLoadingSpinner(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(LoadingSpinner())))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("div.text-center > div.loading").Length())
}
