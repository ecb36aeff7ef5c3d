package main

import (
	"fmt"
	"io"
	"strings"

	"fitcast-backend/outfit"
	"fitcast-backend/service"
	"fitcast-backend/weather"

	"github.com/spf13/cobra"
)

var (
	recLocation  string
	recTolerance int
	recLayers    bool
	recExclude   []string
	recPrefer    []string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Fetch the weather and print the rule-based outfit and timeline",
	Long: `recommend runs the outfit rules against live weather without a database
or a text model. It needs OPENWEATHER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.OpenWeatherAPIKey == "" {
			return weather.ErrMissingAPIKey
		}
		if !outfit.ColdTolerance(recTolerance).Valid() {
			return service.ErrInvalidTolerance
		}

		rules := outfit.DefaultRules()
		if cfg.RulesFile != "" {
			loaded, err := outfit.LoadRules(cfg.RulesFile)
			if err != nil {
				return err
			}
			rules = loaded
		}

		svc := service.NewFitcastService(
			service.FitcastWithWeatherProvider(weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, weather.WithBaseURL(cfg.OpenWeatherBaseURL))),
			service.FitcastWithRules(rules),
			service.FitcastWithDefaultLocation(cfg.DefaultLocation),
		)
		prefs := &outfit.Preferences{
			ColdTolerance:  outfit.ColdTolerance(recTolerance),
			PreferredItems: service.NormalizeItems(recPrefer),
			ExcludedItems:  service.NormalizeItems(recExclude),
			PrefersLayers:  recLayers,
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		dashboard, err := svc.Dashboard(ctx, service.DashboardRequest{Location: recLocation, Preferences: prefs})
		if err != nil {
			return err
		}
		timeline, err := svc.Timeline(ctx, service.TimelineRequest{Location: recLocation, Preferences: prefs})
		if err != nil {
			return err
		}

		printRecommendation(cmd.OutOrStdout(), dashboard, timeline)
		return nil
	},
}

func printRecommendation(w io.Writer, d *service.DashboardResult, tl *service.TimelineResult) {
	point := d.Weather.Point
	fmt.Fprintf(w, "%s: %s, %.0f°F (feels %.0f°F), high %.0f°F, low %.0f°F\n",
		d.Location, point.Description, point.TempF, point.FeelsLikeF, d.HighF, d.LowF)
	fmt.Fprintf(w, "Now [%s]: %s\n", d.Outfit.Band, d.Label)
	if d.Later != nil {
		fmt.Fprintf(w, "Later %s [%s]: %s\n", d.Later.Point.Time.Format("15:04"), d.Later.Outfit.Band, outfit.Label(d.Later.Outfit))
	}

	fmt.Fprintln(w, "\nTimeline:")
	switches := make(map[int]bool, len(tl.Timeline.Switches))
	for _, i := range tl.Timeline.Switches {
		switches[i] = true
	}
	for i, slot := range tl.Timeline.Slots {
		marker := " "
		if switches[i] {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s %5.1f°F  %s\n", marker, slot.Point.Time.Format("Mon 15:04"), slot.Point.TempF,
			strings.Join(slot.Outfit.Items(), ", "))
	}

	fmt.Fprintln(w, "\nNext days:")
	for _, day := range tl.Daily {
		fmt.Fprintf(w, "  %s %.0f/%.0f°F  %s\n", day.Date, day.Point.HighF, day.Point.LowF, day.Label)
	}
}

func init() {
	recommendCmd.Flags().StringVarP(&recLocation, "location", "l", "", "city name (defaults to DEFAULT_LOCATION)")
	recommendCmd.Flags().IntVar(&recTolerance, "tolerance", 0, "cold tolerance: -1 gets cold, 0 neutral, 1 rarely cold")
	recommendCmd.Flags().BoolVar(&recLayers, "layers", false, "prefer layered outfits")
	recommendCmd.Flags().StringSliceVar(&recExclude, "exclude", nil, "clothing items never to recommend")
	recommendCmd.Flags().StringSliceVar(&recPrefer, "prefer", nil, "clothing items to favour")
}
