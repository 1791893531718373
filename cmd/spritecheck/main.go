// Command spritecheck reports sprites referenced by the PokeAPI database
// that are missing from a sprite directory, and files nothing references.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/pokemonsay/internal/config"
	"github.com/llehouerou/pokemonsay/internal/errmsg"
	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pokedb"
	"github.com/llehouerou/pokemonsay/internal/sprites"
)

var rootCmd = &cobra.Command{
	Use:   "spritecheck",
	Short: "Compare the sprites in the database with a sprite directory",
	Long: `Compare the sprites in the database with a sprite directory.

Paths default to the pokemonsay configuration (` + config.EnvDBPath + `,
` + config.EnvSpritesDir + `). Exits with status 1 when a sprite is missing.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	rootCmd.Flags().String("db-path", "", "PokeAPI SQLite database")
	rootCmd.Flags().String("sprites-dir", "", "directory of PNG sprites")
	rootCmd.Flags().BoolP("verbose", "v", false, "list unreferenced files too")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(err))
		os.Exit(1)
	}
}

type urlLister interface {
	SpriteURLs(ctx context.Context) ([]string, error)
}

// Report is the result of comparing the database with a bundle.
type Report struct {
	Referenced int      // distinct sprite URLs in the database
	Missing    []string // referenced but absent from the bundle
	Unused     []string // bundle files no URL points at
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, err)
	}
	if cmd.Flags().Changed("db-path") {
		cfg.DBPath, _ = cmd.Flags().GetString("db-path")
	}
	if cmd.Flags().Changed("sprites-dir") {
		cfg.SpritesDir, _ = cmd.Flags().GetString("sprites-dir")
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	log.Init(cfg.LogLevel)

	store, err := pokedb.Open(cfg.DBPath, pokedb.Queries{})
	if err != nil {
		return errmsg.Wrap(errmsg.OpOpenDatabase, err)
	}
	defer store.Close()

	bundle, err := sprites.LoadDir(cfg.SpritesDir)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadBundle, err)
	}

	report, err := check(cmd.Context(), store, bundle)
	if err != nil {
		return errmsg.Wrap(errmsg.OpCheckBundle, err)
	}

	printReport(cmd.OutOrStdout(), report, bundle.Len(), verbose)
	if len(report.Missing) > 0 {
		return fmt.Errorf("%s missing", plural(len(report.Missing), "sprite"))
	}
	return nil
}

func check(ctx context.Context, store urlLister, bundle *sprites.Bundle) (Report, error) {
	urls, err := store.SpriteURLs(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		key := sprites.Key(u)
		if referenced[key] {
			continue
		}
		referenced[key] = true
		report.Referenced++
		if !bundle.Has(u) {
			report.Missing = append(report.Missing, u)
		}
	}

	for _, name := range bundle.Names() {
		if !referenced[name] {
			report.Unused = append(report.Unused, name)
		}
	}
	return report, nil
}

func printReport(w io.Writer, r Report, bundled int, verbose bool) {
	for _, u := range r.Missing {
		fmt.Fprintf(w, "missing  %s\n", u)
	}
	if verbose {
		for _, name := range r.Unused {
			fmt.Fprintf(w, "unused   %s\n", name)
		}
	}
	fmt.Fprintf(w, "%s referenced, %s bundled, %d missing, %d unused\n",
		plural(r.Referenced, "sprite"), humanize.Comma(int64(bundled)), len(r.Missing), len(r.Unused))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
