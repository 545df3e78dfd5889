package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/icongrab/icongrab/internal/config"
	"github.com/icongrab/icongrab/internal/platform"
	"github.com/icongrab/icongrab/internal/state"
	"github.com/icongrab/icongrab/pkg/ig"
	"github.com/spf13/cobra"
)

var (
	manager    *ig.Manager
	repository *ig.Repository
	registry   *ig.Registry
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	client := ig.NewClient(cfg.HTTPTimeout, cfg.UserAgent)
	registry = ig.DefaultRegistry(client)

	repository, err = ig.NewRepository(cfg.CacheDir, registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing glyph cache: %v\n", err)
		os.Exit(1)
	}

	provisioner := ig.NewProvisioner(platform.New(), client)
	manager = ig.NewManager(registry, repository, provisioner, state.Open(cfg.StateFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ig",
	Short: "ig catalogs icon-font glyphs and installs the fonts that render them",
	Long: `ig downloads glyph metadata for several icon fonts, caches it locally,
and installs or removes the font files themselves so picked glyphs render
correctly.

Examples:
  # Show every known icon font and its status
  ig list

  # Search glyphs across the Material Symbols styles
  ig search alarm --fonts material-symbols-outlined,material-symbols-rounded

  # Install the fonts so the glyphs actually render
  ig install material-symbols-outlined

  # Force-refresh cached glyph metadata
  ig refresh`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known icon fonts and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := manager.StatusRows()
		if len(rows) == 0 {
			fmt.Println("No icon fonts registered")
			return nil
		}

		fmt.Printf("%-26s %-28s %8s %7s %10s %8s %7s\n",
			"ID", "FAMILY", "WEIGHTS", "GLYPHS", "INSTALLED", "CACHED", "HIDDEN")
		for _, row := range rows {
			fmt.Printf("%-26s %-28s %8d %7d %10s %8s %7s\n",
				row.Identifier, row.FontFamily, row.WeightCount, row.GlyphCount,
				yesNo(row.Installed), yesNo(row.Cached), yesNo(row.Hidden))
		}

		if manager.RestartPending() {
			fmt.Println("\nFonts were installed this session; restart applications to pick them up.")
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query words...]",
	Short: "Search glyphs by name across icon fonts",
	Long: `Search glyph metadata. All query words must match; an empty query lists
every glyph. Fonts default to all non-hidden fonts unless --fonts narrows
the set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := selectedFontIDs(cmd)
		if err != nil {
			return err
		}

		glyphs, err := repository.Search(cmd.Context(), ids, strings.Join(args, " "))
		if err != nil {
			var downloadErr *ig.DownloadError
			if errors.As(err, &downloadErr) {
				return fmt.Errorf("unable to load glyph metadata, check network access: %w", err)
			}
			return err
		}

		if len(glyphs) == 0 {
			fmt.Println("No matching glyphs")
			return nil
		}
		for _, glyph := range glyphs {
			fmt.Printf("%s  %-34s %-6s %s\n", glyph.Character, glyph.Name, glyph.Codepoint, glyph.FontLabel)
		}
		fmt.Printf("\n%d glyphs\n", len(glyphs))
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install [font ids...]",
	Short: "Install icon font files into the user font directory",
	Long: `Download and install the binary files of the given fonts (all registered
fonts when none are named). On platforms without an automatic install path
the download URLs are printed for manual installation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := args
		if len(ids) == 0 {
			for _, font := range registry.All() {
				ids = append(ids, font.Identifier)
			}
		}

		progress := func(completed, total int) {
			fmt.Printf("Installed %d/%d font files\n", completed, total)
		}

		installed, err := manager.InstallFonts(cmd.Context(), ids, progress)
		if err != nil {
			var manualErr *ig.ManualInstallError
			if errors.As(err, &manualErr) {
				fmt.Println("Automatic installation is not supported on this platform.")
				fmt.Println("Download and install the fonts manually:")
				for _, url := range manualErr.URLs {
					fmt.Printf("  - %s\n", url)
				}
				os.Exit(1)
			}
			if installed {
				fmt.Println("Fonts were installed but could not be registered with the OS")
			}
			return err
		}
		if !installed {
			fmt.Println("Nothing to install")
			return nil
		}

		fmt.Println("Successfully installed fonts; restart applications to pick them up")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [font ids...]",
	Short: "Remove installed icon font files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := manager.UninstallFonts(args)
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			fmt.Println("Nothing to uninstall")
			return nil
		}
		fmt.Println("Uninstalled:")
		for _, id := range removed {
			fmt.Printf("  - %s\n", id)
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [font ids...]",
	Short: "Re-download cached glyph metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := args
		if len(ids) == 0 {
			for _, font := range registry.All() {
				ids = append(ids, font.Identifier)
			}
		}

		var failed []string
		for _, id := range ids {
			if repository.Ensure(cmd.Context(), id, true) {
				fmt.Printf("Refreshed %s (%d glyphs)\n", id, repository.CachedCount(id))
				continue
			}
			failed = append(failed, id)
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to refresh: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight <desired> <font id>",
	Short: "Resolve a desired weight against a font's available weights",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desired, id := args[0], args[1]
		font, ok := manager.Font(id)
		if !ok {
			return fmt.Errorf("unknown font %q", id)
		}
		resolved := ig.ResolveWeightChoice(desired, font.Weights)
		fmt.Printf("%s resolves to %s for %s (available: %s)\n",
			desired, resolved, font.FontFamily, strings.Join(font.Weights, ", "))
		return nil
	},
}

// selectedFontIDs resolves the --fonts flag, defaulting to every non-hidden
// font in registration order.
func selectedFontIDs(cmd *cobra.Command) ([]string, error) {
	flagValue, err := cmd.Flags().GetString("fonts")
	if err != nil {
		return nil, err
	}
	if flagValue != "" {
		return strings.Split(flagValue, ","), nil
	}
	var ids []string
	for _, font := range manager.AvailableFonts() {
		ids = append(ids, font.Identifier)
	}
	return ids, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(weightCmd)

	searchCmd.Flags().String("fonts", "", "Comma-separated font ids to search (default: all non-hidden fonts)")
}
