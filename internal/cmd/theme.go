package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quakeboard/api/internal/business/theme"
	"github.com/quakeboard/api/internal/repository"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Read or change the dashboard theme",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withThemes(cmd, func(svc *theme.Service) (theme.Theme, error) {
			return svc.Get(cmd.Context())
		})
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set light|dark",
	Short:     "Store a theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := theme.Parse(args[0])
		if err != nil {
			return err
		}
		return withThemes(cmd, func(svc *theme.Service) (theme.Theme, error) {
			return t, svc.Set(cmd.Context(), t)
		})
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip between light and dark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withThemes(cmd, func(svc *theme.Service) (theme.Theme, error) {
			return svc.Toggle(cmd.Context())
		})
	},
}

func init() {
	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

func withThemes(cmd *cobra.Command, fn func(*theme.Service) (theme.Theme, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lg := cliLogger(cfg)

	prefs, closePrefs, err := repository.OpenPreferenceStore(cmd.Context(), cfg, lg)
	if err != nil {
		return err
	}
	defer closePrefs()

	t, err := fn(theme.NewService(prefs, lg))
	if err != nil {
		return err
	}
	r, err := renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderTheme(string(t))
}
