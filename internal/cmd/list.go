package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/internal/platform/usgs"
	"github.com/quakeboard/api/pkg/model"
)

var (
	listQuery  string
	listParams quakes.FilterParams
	listPages  int
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List earthquakes matching a search and filters",
	Long: `Fetch the feed once, apply search, filters and sort, and print the
first page(s) of the result.

Examples:
  quakectl list --magnitude 5+ --period 24h
  quakectl list -q tokyo --sort magnitude
  quakectl list --location alaska --all --output json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics for the filtered feed",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	for _, c := range []*cobra.Command{listCmd, statsCmd} {
		c.Flags().StringVarP(&listQuery, "query", "q", "", "search text (title, place or magnitude)")
		c.Flags().StringVar(&listParams.MagnitudeRange, "magnitude", "all", "magnitude range: all, a-b or a+")
		c.Flags().StringVar(&listParams.TimePeriod, "period", "all", "time period: all, 1h, 6h, 12h, 24h, 7d, 30d")
		c.Flags().StringVar(&listParams.Location, "location", "", "place substring")
		c.Flags().StringVar(&listParams.SortBy, "sort", "time", "sort key: time, magnitude, location (or time-asc, ...)")
		c.Flags().StringVar(&listParams.SortOrder, "order", "", "sort order: asc, desc")
	}
	listCmd.Flags().IntVar(&listPages, "pages", 1, "number of pages to show")
	listCmd.Flags().BoolVar(&listAll, "all", false, "show every match")

	rootCmd.AddCommand(listCmd, statsCmd)
}

// fetchDerived fetches the feed once and derives the filtered sequence.
func fetchDerived(cmd *cobra.Command) ([]model.Feature, int, error) {
	spec, err := listParams.Spec()
	if err != nil {
		return nil, 0, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, 0, err
	}

	lg := cliLogger(cfg)
	store := quakes.NewFeedStore(usgs.New(cfg.USGSAPIURL, nil, lg), lg)
	if _, err := store.Refresh(cmd.Context()); err != nil {
		return nil, 0, fmt.Errorf("fetch feed: %w", err)
	}

	pageSize := cfg.PageSize
	collection := quakes.Renderable(store.State())
	return quakes.Derive(collection.Items(), listQuery, spec), pageSize, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	items, pageSize, err := fetchDerived(cmd)
	if err != nil {
		return err
	}

	pager := quakes.NewPager(pageSize)
	pager.SetItems(items)
	if listAll {
		for pager.LoadMore() {
		}
	} else {
		for i := 1; i < listPages; i++ {
			pager.LoadMore()
		}
	}

	r, err := renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderList(pager.Visible(), pager.Len())
}

func runStats(cmd *cobra.Command, _ []string) error {
	items, _, err := fetchDerived(cmd)
	if err != nil {
		return err
	}
	r, err := renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderStats(quakes.AggregateStatistics(items, time.Now()))
}
