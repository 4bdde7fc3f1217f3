package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prooflayer/internal/widget/embedcode"
	"prooflayer/internal/widget/models"
	id "prooflayer/pkg/domain"
)

type embedFlags struct {
	widgetType   string
	layout       string
	theme        string
	maxItems     int
	minRating    int
	hideRatings  bool
	showDates    bool
	autoplay     bool
	hideBranding bool
	accent       string
	scriptURL    string
}

func newEmbedCmd(root *rootOptions) *cobra.Command {
	f := &embedFlags{}
	cmd := &cobra.Command{
		Use:   "embed WIDGET_ID",
		Short: "Print the embed snippet for a widget",
		Long: `Print the HTML snippet a site owner pastes into their page. The snippet
is generated offline from the flags; no server or plan check is involved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widgetID, err := id.ParseWidgetID(args[0])
			if err != nil {
				return fmt.Errorf("invalid widget id: %w", err)
			}
			scriptURL := f.scriptURL
			if scriptURL == "" {
				cfg, err := root.load()
				if err != nil {
					return err
				}
				scriptURL = cfg.Widget.ScriptURL
			}

			w, err := models.NewWidget(widgetID, id.NewWorkspaceID(), models.Settings{
				Name:         "embed",
				Type:         models.Type(f.widgetType),
				Layout:       models.Layout(f.layout),
				Theme:        models.Theme(f.theme),
				MaxItems:     f.maxItems,
				MinRating:    f.minRating,
				ShowRatings:  !f.hideRatings,
				ShowDates:    f.showDates,
				Autoplay:     f.autoplay,
				HideBranding: f.hideBranding,
				AccentColor:  f.accent,
			}, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), embedcode.GenerateEmbed(embedcode.OptionsFor(w, scriptURL)))
			return err
		},
	}
	cmd.Flags().StringVar(&f.widgetType, "type", string(models.TypeWall), "widget type: wall, carousel, single, badge or popup")
	cmd.Flags().StringVar(&f.layout, "layout", "", "layout: grid, masonry, list or slider")
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme: light, dark or auto")
	cmd.Flags().IntVar(&f.maxItems, "max-items", 0, "maximum testimonials shown (0 uses the default)")
	cmd.Flags().IntVar(&f.minRating, "min-rating", 0, "hide testimonials rated below this")
	cmd.Flags().BoolVar(&f.hideRatings, "hide-ratings", false, "do not render star ratings")
	cmd.Flags().BoolVar(&f.showDates, "show-dates", false, "render submission dates")
	cmd.Flags().BoolVar(&f.autoplay, "autoplay", false, "autoplay video testimonials")
	cmd.Flags().BoolVar(&f.hideBranding, "hide-branding", false, "omit the powered-by badge")
	cmd.Flags().StringVar(&f.accent, "accent", "", "accent colour as #rrggbb")
	cmd.Flags().StringVar(&f.scriptURL, "script-url", "", "loader script URL (defaults to WIDGET_SCRIPT_URL)")
	return cmd
}
