package acts

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/acts-bd/acts-client/pkg/request"
)

// DefaultPrefix is where the REST API is mounted.
const DefaultPrefix = "/api/"

// API wraps the procurement analytics endpoints. Every call goes through the
// request client, so failures are logged and surfaced as a danger notification.
type API struct {
	client *request.Client
	prefix string
}

// New returns an API rooted at prefix. An empty prefix means DefaultPrefix and "/"
// mounts the endpoints at the server root.
func New(client *request.Client, prefix string) (*API, error) {
	if client == nil {
		return nil, errors.New("acts api requires a request client")
	}
	return &API{client: client, prefix: normalizePrefix(prefix)}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultPrefix
	}
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		return "/"
	}
	return "/" + prefix + "/"
}

// Endpoint resolves a path relative to the API prefix, keeping Django's trailing slash.
func (a *API) Endpoint(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return a.prefix
	}
	return a.prefix + path + "/"
}

// TenderFilter narrows the tender listing.
type TenderFilter struct {
	Status   string
	Category int
	District int
	Search   string
	Ordering string
	Page     int
}

func (f TenderFilter) query() map[string]string {
	q := queryParams{}
	q.str("status", f.Status)
	q.num("category", f.Category)
	q.num("buyer__district", f.District)
	q.str("search", f.Search)
	q.str("ordering", f.Ordering)
	q.num("page", f.Page)
	return q.done()
}

// OrganizationFilter narrows the organization listing.
type OrganizationFilter struct {
	Type     string
	District int
	Active   *bool
	Page     int
}

func (f OrganizationFilter) query() map[string]string {
	q := queryParams{}
	q.str("organization_type", f.Type)
	q.num("district", f.District)
	q.flag("is_active", f.Active)
	q.num("page", f.Page)
	return q.done()
}

// RiskScoreFilter narrows the risk score listing.
type RiskScoreFilter struct {
	RiskLevel    string
	SingleBid    *bool
	ShortWindow  *bool
	RepeatedPair *bool
	Page         int
}

func (f RiskScoreFilter) query() map[string]string {
	q := queryParams{}
	q.str("risk_level", f.RiskLevel)
	q.flag("single_bid_flag", f.SingleBid)
	q.flag("short_window_flag", f.ShortWindow)
	q.flag("repeated_pair_flag", f.RepeatedPair)
	q.num("page", f.Page)
	return q.done()
}

func (a *API) Districts(ctx context.Context) (List[District], error) {
	return request.DecodeInto[List[District]](ctx, a.client, a.Endpoint("districts"), nil)
}

func (a *API) Categories(ctx context.Context) (List[Category], error) {
	return request.DecodeInto[List[Category]](ctx, a.client, a.Endpoint("categories"), nil)
}

func (a *API) Organizations(ctx context.Context, f OrganizationFilter) (List[Organization], error) {
	return request.DecodeInto[List[Organization]](ctx, a.client, a.Endpoint("organizations"), &request.Options{Query: f.query()})
}

func (a *API) Tenders(ctx context.Context, f TenderFilter) (List[TenderSummary], error) {
	return request.DecodeInto[List[TenderSummary]](ctx, a.client, a.Endpoint("tenders"), &request.Options{Query: f.query()})
}

// Tender fetches the detail view of one tender by its numeric id.
func (a *API) Tender(ctx context.Context, id int) (TenderDetail, error) {
	return request.DecodeInto[TenderDetail](ctx, a.client, a.Endpoint("tenders/"+strconv.Itoa(id)), nil)
}

func (a *API) RiskScores(ctx context.Context, f RiskScoreFilter) (List[RiskScore], error) {
	return request.DecodeInto[List[RiskScore]](ctx, a.client, a.Endpoint("risk-scores"), &request.Options{Query: f.query()})
}

func (a *API) AnalyticsSummary(ctx context.Context) (AnalyticsSummary, error) {
	return request.DecodeInto[AnalyticsSummary](ctx, a.client, a.Endpoint("analytics/summary"), nil)
}

func (a *API) DistrictRisks(ctx context.Context) ([]DistrictRisk, error) {
	return request.DecodeInto[[]DistrictRisk](ctx, a.client, a.Endpoint("analytics/district-risks"), nil)
}

// RunAnalysis asks the server to rescore every tender.
func (a *API) RunAnalysis(ctx context.Context) (AnalysisResult, error) {
	return request.DecodeInto[AnalysisResult](ctx, a.client, a.Endpoint("analytics/run-analysis"), &request.Options{
		Method: http.MethodPost,
	})
}

func (a *API) NetworkStats(ctx context.Context) (NetworkReport, error) {
	return request.DecodeInto[NetworkReport](ctx, a.client, a.Endpoint("analytics/network-stats"), nil)
}

func (a *API) ExportTenders(ctx context.Context) (ExportResult, error) {
	return request.DecodeInto[ExportResult](ctx, a.client, a.Endpoint("export/tenders"), nil)
}

func (a *API) ExportRisks(ctx context.Context) (ExportResult, error) {
	return request.DecodeInto[ExportResult](ctx, a.client, a.Endpoint("export/risks"), nil)
}

// Get fetches any path under the prefix and returns the decoded JSON.
func (a *API) Get(ctx context.Context, path string, query map[string]string) (any, error) {
	return a.client.Do(ctx, a.Endpoint(path), &request.Options{Query: query})
}

type queryParams map[string]string

func (q queryParams) str(key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q[key] = v
	}
}

func (q queryParams) num(key string, v int) {
	if v > 0 {
		q[key] = strconv.Itoa(v)
	}
}

func (q queryParams) flag(key string, v *bool) {
	if v != nil {
		q[key] = strconv.FormatBool(*v)
	}
}

func (q queryParams) done() map[string]string {
	if len(q) == 0 {
		return nil
	}
	return q
}
