// Package acts models the procurement analytics REST API and wraps its endpoints.
package acts

import "github.com/shopspring/decimal"

// Risk levels assigned by the analyzer.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

type District struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Division  string    `json:"division"`
	Code      string    `json:"code"`
	CreatedAt Timestamp `json:"created_at"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Organization struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	OrganizationType   string    `json:"organization_type"`
	District           *int      `json:"district"`
	DistrictName       string    `json:"district_name"`
	RegistrationNumber string    `json:"registration_number"`
	ContactEmail       string    `json:"contact_email"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          Timestamp `json:"created_at"`
}

// RiskScore is the per-tender analysis result. Scores range over 0..100.
type RiskScore struct {
	SingleBidFlag     bool      `json:"single_bid_flag"`
	ShortWindowFlag   bool      `json:"short_window_flag"`
	RepeatedPairFlag  bool      `json:"repeated_pair_flag"`
	HighValueFlag     bool      `json:"high_value_flag"`
	SingleBidScore    int       `json:"single_bid_score"`
	ShortWindowScore  int       `json:"short_window_score"`
	RepeatedPairScore int       `json:"repeated_pair_score"`
	NetworkRiskScore  int       `json:"network_risk_score"`
	TotalRiskScore    int       `json:"total_risk_score"`
	RiskLevel         string    `json:"risk_level"`
	AnalysisDate      Timestamp `json:"analysis_date"`
}

// IsHighRisk reports whether the level counts toward high-risk totals.
func (r RiskScore) IsHighRisk() bool {
	return r.RiskLevel == RiskHigh || r.RiskLevel == RiskCritical
}

type Bid struct {
	ID             int                 `json:"id"`
	Bidder         int                 `json:"bidder"`
	BidderName     string              `json:"bidder_name"`
	BidAmount      decimal.Decimal     `json:"bid_amount"`
	SubmissionDate Timestamp           `json:"submission_date"`
	IsWinner       bool                `json:"is_winner"`
	TechnicalScore decimal.NullDecimal `json:"technical_score"`
	FinancialScore decimal.NullDecimal `json:"financial_score"`
}

// TenderSummary is the list representation of a tender.
type TenderSummary struct {
	ID                 int                 `json:"id"`
	TenderID           string              `json:"tender_id"`
	Title              string              `json:"title"`
	Buyer              int                 `json:"buyer"`
	BuyerName          string              `json:"buyer_name"`
	Winner             *int                `json:"winner"`
	WinnerName         string              `json:"winner_name"`
	Category           *int                `json:"category"`
	CategoryName       string              `json:"category_name"`
	DistrictName       string              `json:"district_name"`
	EstimatedValue     decimal.Decimal     `json:"estimated_value"`
	AwardAmount        decimal.NullDecimal `json:"award_amount"`
	PublicationDate    Timestamp           `json:"publication_date"`
	SubmissionDeadline Timestamp           `json:"submission_deadline"`
	AwardDate          *Timestamp          `json:"award_date"`
	Status             string              `json:"status"`
	TenderWindowDays   *int                `json:"tender_window_days"`
	RiskScore          *RiskScore          `json:"risk_score"`
	CreatedAt          Timestamp           `json:"created_at"`
}

// TenderDetail is the full representation returned for a single tender.
type TenderDetail struct {
	ID                 int                 `json:"id"`
	TenderID           string              `json:"tender_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Buyer              *Organization       `json:"buyer"`
	Winner             *Organization       `json:"winner"`
	Category           *Category           `json:"category"`
	EstimatedValue     decimal.Decimal     `json:"estimated_value"`
	AwardAmount        decimal.NullDecimal `json:"award_amount"`
	Currency           string              `json:"currency"`
	PublicationDate    Timestamp           `json:"publication_date"`
	SubmissionDeadline Timestamp           `json:"submission_deadline"`
	OpeningDate        Timestamp           `json:"opening_date"`
	AwardDate          *Timestamp          `json:"award_date"`
	Status             string              `json:"status"`
	TenderWindowDays   *int                `json:"tender_window_days"`
	IsShortWindow      bool                `json:"is_short_window"`
	RiskScore          *RiskScore          `json:"risk_score"`
	Bids               []Bid               `json:"bids"`
	CreatedAt          Timestamp           `json:"created_at"`
	UpdatedAt          Timestamp           `json:"updated_at"`
}

// DistrictRisk aggregates tender risk per district.
type DistrictRisk struct {
	DistrictID      int     `json:"district_id"`
	DistrictName    string  `json:"district_name"`
	Division        string  `json:"division"`
	TotalTenders    int     `json:"total_tenders"`
	HighRiskTenders int     `json:"high_risk_tenders"`
	AvgRiskScore    float64 `json:"avg_risk_score"`
	RiskRatio       float64 `json:"risk_ratio"`
}

type AnalyticsSummary struct {
	TotalTenders       int            `json:"total_tenders"`
	TotalOrganizations int            `json:"total_organizations"`
	TotalDistricts     int            `json:"total_districts"`
	HighRiskTenders    int            `json:"high_risk_tenders"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
	TopRiskFlags       map[string]int `json:"top_risk_flags"`
	MonthlyTrends      []any          `json:"monthly_trends"`
}

// AnalysisResult is returned by a run of the risk analyzer.
type AnalysisResult struct {
	TotalAnalyzed  int            `json:"total_analyzed"`
	HighRiskFound  int            `json:"high_risk_found"`
	FlagsDetected  map[string]int `json:"flags_detected"`
	ProcessingTime *float64       `json:"processing_time,omitempty"`
}

// ConnectedOrganization is a graph node ranked by its number of counterparties.
type ConnectedOrganization struct {
	OrganizationID int    `json:"organization_id"`
	Name           string `json:"name"`
	Connections    int    `json:"connections"`
}

type NetworkStats struct {
	TotalNodes          int                    `json:"total_nodes"`
	TotalEdges          int                    `json:"total_edges"`
	Density             float64                `json:"density"`
	ConnectedComponents int                    `json:"connected_components"`
	AvgClustering       float64                `json:"avg_clustering"`
	MostConnected       *ConnectedOrganization `json:"most_connected,omitempty"`
}

// ExclusiveRelationship is a buyer/supplier pair that shares several tenders.
type ExclusiveRelationship struct {
	BuyerID      int    `json:"buyer_id"`
	SupplierID   int    `json:"supplier_id"`
	BuyerName    string `json:"buyer_name"`
	SupplierName string `json:"supplier_name"`
	TenderCount  int    `json:"tender_count"`
}

type SuspiciousPatterns struct {
	HighlyConnectedSuppliers []ConnectedOrganization `json:"highly_connected_suppliers"`
	ExclusiveRelationships   []ExclusiveRelationship `json:"exclusive_relationships"`
	ClusterAnalysis          map[string]any          `json:"cluster_analysis"`
}

// NetworkReport bundles graph statistics with the suspicious patterns found.
type NetworkReport struct {
	NetworkStats       NetworkStats       `json:"network_stats"`
	SuspiciousPatterns SuspiciousPatterns `json:"suspicious_patterns"`
}

// ExportResult is the acknowledgement returned by export endpoints.
type ExportResult struct {
	Message string `json:"message"`
}
