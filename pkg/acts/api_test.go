package acts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/acts-bd/acts-client/pkg/csrf"
	"github.com/acts-bd/acts-client/pkg/httpclient"
	"github.com/acts-bd/acts-client/pkg/notify"
	"github.com/acts-bd/acts-client/pkg/request"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (c *captured) Notify(_ context.Context, n notify.Notification) {
	c.mu.Lock()
	c.notes = append(c.notes, n)
	c.mu.Unlock()
}

func (c *captured) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

func newTestAPI(t *testing.T, mux *http.ServeMux) (*API, *captured) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	notes := &captured{}
	client, err := request.New(
		httpclient.NewRestyClientWithOptions(httpclient.Options{BaseURL: srv.URL, Timeout: 2 * time.Second}),
		request.WithCookies(csrf.HeaderSource("csrftoken=tok")),
		request.WithNotifier(notes),
	)
	require.NoError(t, err)

	api, err := New(client, "api")
	require.NoError(t, err)
	return api, notes
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestEndpointKeepsTrailingSlash(t *testing.T) {
	api := &API{prefix: normalizePrefix("/api")}
	assert.Equal(t, "/api/tenders/", api.Endpoint("tenders"))
	assert.Equal(t, "/api/tenders/7/", api.Endpoint("/tenders/7/"))
	assert.Equal(t, "/api/", api.Endpoint(""))
	assert.Equal(t, DefaultPrefix, normalizePrefix(" "))
	assert.Equal(t, "/tenders/", (&API{prefix: normalizePrefix("/")}).Endpoint("tenders"))
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil, "")
	require.Error(t, err)
}

func TestTendersAcceptsPaginatedEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tenders/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "awarded", r.URL.Query().Get("status"))
		assert.Equal(t, "12", r.URL.Query().Get("buyer__district"))
		assert.Equal(t, "tok", r.Header.Get("X-CSRFToken"))
		writeJSON(w, `{
			"count": 41,
			"next": "http://testserver/api/tenders/?page=2",
			"previous": null,
			"results": [{
				"id": 1,
				"tender_id": "T-2024-001",
				"title": "Road repair",
				"buyer": 3,
				"buyer_name": "Dhaka City Corporation",
				"winner": null,
				"district_name": "Dhaka",
				"estimated_value": "2500000.00",
				"award_amount": null,
				"publication_date": "2024-01-02T10:00:00+06:00",
				"submission_deadline": "2024-01-09T10:00:00+06:00",
				"award_date": null,
				"status": "awarded",
				"tender_window_days": 7,
				"risk_score": {"total_risk_score": 85, "risk_level": "high", "single_bid_flag": true},
				"created_at": "2024-01-02T10:00:00.123456"
			}]
		}`)
	})
	api, notes := newTestAPI(t, mux)

	list, err := api.Tenders(context.Background(), TenderFilter{Status: "awarded", District: 12})
	require.NoError(t, err)
	assert.Equal(t, 41, list.Count)
	assert.True(t, list.HasMore())
	require.Len(t, list.Results, 1)

	tender := list.Results[0]
	assert.True(t, decimal.RequireFromString("2500000").Equal(tender.EstimatedValue))
	assert.False(t, tender.AwardAmount.Valid)
	assert.Nil(t, tender.Winner)
	assert.Nil(t, tender.AwardDate)
	require.NotNil(t, tender.RiskScore)
	assert.True(t, tender.RiskScore.IsHighRisk())
	assert.Equal(t, 2024, tender.CreatedAt.Year())
	assert.Zero(t, notes.len())
}

func TestDistrictsAcceptsBareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/districts/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `[{"id":1,"name":"Dhaka","division":"Dhaka","code":"DHK","created_at":"2024-01-01T00:00:00Z"},
			{"id":2,"name":"Sylhet","division":"Sylhet","code":"SYL","created_at":"2024-01-01T00:00:00Z"}]`)
	})
	api, _ := newTestAPI(t, mux)

	list, err := api.Districts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.False(t, list.HasMore())
	assert.Equal(t, "Sylhet", list.Results[1].Name)
}

func TestDistrictRisksAndSummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/district-risks/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `[{"district_id":1,"district_name":"Dhaka","division":"Dhaka","total_tenders":10,"high_risk_tenders":4,"avg_risk_score":55.5,"risk_ratio":0.4}]`)
	})
	mux.HandleFunc("/api/analytics/summary/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"total_tenders":10,"total_organizations":5,"total_districts":3,"high_risk_tenders":4,
			"risk_distribution":{"high":3,"critical":1,"low":6},
			"top_risk_flags":{"single_bid":2,"short_window":1,"repeated_pair":0},
			"monthly_trends":[]}`)
	})
	api, _ := newTestAPI(t, mux)

	risks, err := api.DistrictRisks(context.Background())
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.InDelta(t, 0.4, risks[0].RiskRatio, 1e-9)

	summary, err := api.AnalyticsSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.HighRiskTenders)
	assert.Equal(t, 1, summary.RiskDistribution["critical"])
	assert.Equal(t, 2, summary.TopRiskFlags["single_bid"])
}

func TestRunAnalysisPosts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/run-analysis/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, `{"total_analyzed":10,"high_risk_found":4,"flags_detected":{"single_bid":2}}`)
	})
	api, notes := newTestAPI(t, mux)

	res, err := api.RunAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalAnalyzed)
	assert.Equal(t, 2, res.FlagsDetected["single_bid"])
	assert.Zero(t, notes.len())
}

func TestNetworkStatsDecodesPatterns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/network-stats/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"network_stats":{"total_nodes":4,"total_edges":3,"density":0.5,"connected_components":1,
			"avg_clustering":0.0,"most_connected":{"organization_id":7,"name":"Acme","connections":3}},
			"suspicious_patterns":{"highly_connected_suppliers":[],
			"exclusive_relationships":[{"buyer_id":1,"supplier_id":7,"buyer_name":"LGED","supplier_name":"Acme","tender_count":4}],
			"cluster_analysis":{}}}`)
	})
	api, _ := newTestAPI(t, mux)

	report, err := api.NetworkStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report.NetworkStats.MostConnected)
	assert.Equal(t, "Acme", report.NetworkStats.MostConnected.Name)
	require.Len(t, report.SuspiciousPatterns.ExclusiveRelationships, 1)
	assert.Equal(t, 4, report.SuspiciousPatterns.ExclusiveRelationships[0].TenderCount)
}

func TestServerErrorNotifiesOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/network-stats/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, `{"error":"networkx missing"}`)
	})
	api, notes := newTestAPI(t, mux)

	_, err := api.NetworkStats(context.Background())
	var statusErr *request.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, 1, notes.len())
}

func TestMalformedListIsParseError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"detail":"not a list"}`)
	})
	api, notes := newTestAPI(t, mux)

	_, err := api.Categories(context.Background())
	var parseErr *request.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, notes.len())
}

func TestFilterQueries(t *testing.T) {
	active := false
	assert.Nil(t, TenderFilter{}.query())
	assert.Equal(t, map[string]string{
		"organization_type": "buyer",
		"is_active":         "false",
		"page":              "2",
	}, OrganizationFilter{Type: "buyer", Active: &active, Page: 2}.query())
	assert.Equal(t, map[string]string{"risk_level": "high"}, RiskScoreFilter{RiskLevel: " high "}.query())
}

func TestTimestampLayouts(t *testing.T) {
	var v struct {
		A Timestamp  `json:"a"`
		B Timestamp  `json:"b"`
		C *Timestamp `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2024-03-01T08:30:00Z","b":"2024-03-01","c":null}`), &v))
	assert.Equal(t, time.March, v.A.Month())
	assert.Equal(t, 1, v.B.Day())
	assert.Nil(t, v.C)

	require.Error(t, json.Unmarshal([]byte(`{"a":"yesterday"}`), &v))
}
