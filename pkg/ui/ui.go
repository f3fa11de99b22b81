// Package ui holds the small markup fragments shared by dashboard views.
package ui

import (
	"html/template"
	"strings"
)

const loadingSpinner template.HTML = `<div class="text-center"><div class="loading"></div></div>`

var riskBadges = map[string]template.HTML{
	"high":   `<span class="badge bg-danger">High Risk</span>`,
	"medium": `<span class="badge bg-warning text-dark">Medium Risk</span>`,
	"low":    `<span class="badge bg-success">Low Risk</span>`,
}

const unknownBadge template.HTML = `<span class="badge bg-secondary">Unknown</span>`

// LoadingSpinner is the placeholder shown while a panel loads.
func LoadingSpinner() template.HTML { return loadingSpinner }

// RiskBadge returns the badge for a risk level. Levels are matched exactly;
// anything else, including "critical", renders as Unknown.
func RiskBadge(level string) template.HTML {
	if b, ok := riskBadges[level]; ok {
		return b
	}
	return unknownBadge
}

// BadgeText is the visible label of a badge fragment.
func BadgeText(level string) string {
	s := string(RiskBadge(level))
	s = s[strings.Index(s, ">")+1:]
	return strings.TrimSuffix(s, "</span>")
}
