package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/acts-bd/acts-client/pkg/acts"
	"github.com/acts-bd/acts-client/pkg/format"
	"github.com/acts-bd/acts-client/pkg/ui"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show headline procurement and risk counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.rt.API.AnalyticsSummary(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, s, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Tenders\t%s\n", format.Int(int64(s.TotalTenders)))
				fmt.Fprintf(tw, "Organizations\t%s\n", format.Int(int64(s.TotalOrganizations)))
				fmt.Fprintf(tw, "Districts\t%s\n", format.Int(int64(s.TotalDistricts)))
				fmt.Fprintf(tw, "High risk tenders\t%s\n", format.Int(int64(s.HighRiskTenders)))
				for _, level := range sortedKeys(s.RiskDistribution) {
					fmt.Fprintf(tw, "  %s\t%s\n", levelLabel(level), format.Int(int64(s.RiskDistribution[level])))
				}
				for _, flag := range sortedKeys(s.TopRiskFlags) {
					fmt.Fprintf(tw, "Flag %s\t%s\n", flag, format.Int(int64(s.TopRiskFlags[flag])))
				}
			})
		},
	}
}

func (c *cli) districtRisksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "district-risks",
		Short: "List districts ranked by share of high risk tenders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			risks, err := c.rt.API.DistrictRisks(cmd.Context())
			if err != nil {
				return err
			}
			sort.SliceStable(risks, func(i, j int) bool { return risks[i].RiskRatio > risks[j].RiskRatio })
			return emit(cmd.OutOrStdout(), c.output, risks, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "DISTRICT\tDIVISION\tTENDERS\tHIGH RISK\tRATIO\tAVG SCORE")
				for _, r := range risks {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.DistrictName, r.Division,
						format.Int(int64(r.TotalTenders)), format.Int(int64(r.HighRiskTenders)),
						format.Percent(decimal.NewFromFloat(r.RiskRatio*100), 1),
						decimal.NewFromFloat(r.AvgRiskScore).StringFixed(1))
				}
			})
		},
	}
}

func (c *cli) tendersCommand() *cobra.Command {
	var f acts.TenderFilter
	cmd := &cobra.Command{
		Use:   "tenders",
		Short: "List tenders, highest risk first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.rt.API.Tenders(cmd.Context(), f)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, list, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tTENDER\tBUYER\tDISTRICT\tESTIMATED\tRISK\tSCORE")
				for _, t := range list.Results {
					level, score := "", "-"
					if t.RiskScore != nil {
						level, score = t.RiskScore.RiskLevel, strconv.Itoa(t.RiskScore.TotalRiskScore)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
						t.ID, t.TenderID, t.BuyerName, t.DistrictName,
						format.Currency(t.EstimatedValue), levelLabel(level), score)
				}
				fmt.Fprintf(tw, "\n%d of %s tenders\n", len(list.Results), format.Int(int64(list.Count)))
			})
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "filter by status")
	cmd.Flags().IntVar(&f.Category, "category", 0, "filter by category id")
	cmd.Flags().IntVar(&f.District, "district", 0, "filter by buyer district id")
	cmd.Flags().StringVar(&f.Search, "search", "", "search title, tender id or buyer")
	cmd.Flags().StringVar(&f.Ordering, "ordering", "", "server-side ordering field")
	cmd.Flags().IntVar(&f.Page, "page", 0, "page number")
	return cmd
}

func (c *cli) tenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tender <id>",
		Short: "Show one tender with its bids and risk flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("tender id must be a number: %w", err)
			}
			t, err := c.rt.API.Tender(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, t, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Tender\t%s\n", t.TenderID)
				fmt.Fprintf(tw, "Title\t%s\n", t.Title)
				if t.Buyer != nil {
					fmt.Fprintf(tw, "Buyer\t%s\n", t.Buyer.Name)
				}
				if t.Winner != nil {
					fmt.Fprintf(tw, "Winner\t%s\n", t.Winner.Name)
				}
				fmt.Fprintf(tw, "Status\t%s\n", t.Status)
				fmt.Fprintf(tw, "Estimated\t%s\n", format.Currency(t.EstimatedValue))
				if t.AwardAmount.Valid {
					fmt.Fprintf(tw, "Awarded\t%s\n", format.Currency(t.AwardAmount.Decimal))
				}
				if r := t.RiskScore; r != nil {
					fmt.Fprintf(tw, "Risk\t%s (%d/100)\n", levelLabel(r.RiskLevel), r.TotalRiskScore)
					fmt.Fprintf(tw, "Flags\t%s\n", riskFlags(*r))
				}
				for _, b := range t.Bids {
					marker := ""
					if b.IsWinner {
						marker = " *"
					}
					fmt.Fprintf(tw, "Bid\t%s\t%s%s\n", b.BidderName, format.Currency(b.BidAmount), marker)
				}
			})
		},
	}
}

func (c *cli) analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Re-run the risk analysis on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.rt.API.RunAnalysis(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, res, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Analyzed\t%s\n", format.Int(int64(res.TotalAnalyzed)))
				fmt.Fprintf(tw, "High risk\t%s\n", format.Int(int64(res.HighRiskFound)))
				for _, flag := range sortedKeys(res.FlagsDetected) {
					fmt.Fprintf(tw, "Flag %s\t%s\n", flag, format.Int(int64(res.FlagsDetected[flag])))
				}
			})
		},
	}
}

func (c *cli) networkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Show buyer and supplier network statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := c.rt.API.NetworkStats(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, rep, func(tw *tabwriter.Writer) {
				s := rep.NetworkStats
				fmt.Fprintf(tw, "Nodes\t%s\n", format.Int(int64(s.TotalNodes)))
				fmt.Fprintf(tw, "Edges\t%s\n", format.Int(int64(s.TotalEdges)))
				fmt.Fprintf(tw, "Density\t%.4f\n", s.Density)
				fmt.Fprintf(tw, "Components\t%d\n", s.ConnectedComponents)
				if s.MostConnected != nil {
					fmt.Fprintf(tw, "Most connected\t%s (%d)\n", s.MostConnected.Name, s.MostConnected.Connections)
				}
				for _, r := range rep.SuspiciousPatterns.ExclusiveRelationships {
					fmt.Fprintf(tw, "Exclusive pair\t%s -> %s\t%d tenders\n", r.BuyerName, r.SupplierName, r.TenderCount)
				}
			})
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "export {tenders|risks}",
		Short:     "Request a server-side export",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"tenders", "risks"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				res acts.ExportResult
				err error
			)
			if args[0] == "tenders" {
				res, err = c.rt.API.ExportTenders(cmd.Context())
			} else {
				res, err = c.rt.API.ExportRisks(cmd.Context())
			}
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c.output, res, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, res.Message)
			})
		},
	}
}

func (c *cli) getCommand() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET any path under the API prefix and print the JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := make(map[string]string, len(params))
			for _, p := range params {
				k, v, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("query parameter %q must be key=value", p)
				}
				query[k] = v
			}
			v, err := c.rt.API.Get(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			out := c.output
			if out == outputText {
				out = outputJSON
			}
			return emit(cmd.OutOrStdout(), out, v, nil)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "query", "q", nil, "query parameter as key=value (repeatable)")
	return cmd
}

func levelLabel(level string) string {
	if level == acts.RiskCritical {
		return "Critical Risk"
	}
	return ui.BadgeText(level)
}

func riskFlags(r acts.RiskScore) string {
	var flags []string
	if r.SingleBidFlag {
		flags = append(flags, "single bid")
	}
	if r.ShortWindowFlag {
		flags = append(flags, "short window")
	}
	if r.RepeatedPairFlag {
		flags = append(flags, "repeated pair")
	}
	if r.HighValueFlag {
		flags = append(flags, "high value")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ", ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
