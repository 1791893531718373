package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llehouerou/pokemonsay/internal/caption"
	"github.com/llehouerou/pokemonsay/internal/config"
	"github.com/llehouerou/pokemonsay/internal/errmsg"
	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pipeline"
	"github.com/llehouerou/pokemonsay/internal/pokeapi"
	"github.com/llehouerou/pokemonsay/internal/pokedb"
	"github.com/llehouerou/pokemonsay/internal/termimg"
)

var rootCmd = &cobra.Command{
	Use:   "pokemonsay",
	Short: "Print a random Pokémon sprite with a caption",
	Long: `Print a random Pokémon sprite with a caption.

The first line piped on stdin replaces the caption template.
Settings are read from $XDG_CONFIG_HOME/pokemonsay/config.toml, then
./config.toml, then the environment (` + config.EnvDBPath + `,
` + config.EnvSpritesDir + `), then flags.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPokemonsay,
}

func init() {
	registerFlags(rootCmd.Flags())
}

func registerFlags(f *pflag.FlagSet) {
	f.String("query-method", "", `record source: "db" or "http" (default "db" when a database path is set)`)
	f.String("db-path", "", "PokeAPI SQLite database")
	f.String("sprites-method", "", `sprite source: "embedded" or "http" (default "embedded" when a sprites directory is set)`)
	f.String("sprites-dir", "", "directory of PNG sprites")
	f.String("graphql-url", pokeapi.DefaultEndpoint, "PokeAPI GraphQL endpoint")
	f.String("db-pokemon-query", "", "SQL selecting (id, name, species id)\n"+pokedb.DefaultPokemonQuery)
	f.String("db-species-name-query", "", "SQL selecting (id, genus, name) for a species id\n"+pokedb.DefaultSpeciesNameQuery)
	f.String("db-sprites-query", "", "SQL selecting (id, sprite url) for a pokemon id\n"+pokedb.DefaultSpritesQuery)
	f.String("http-graphql-query", "", "GraphQL query taking $random_offset\n"+pokeapi.DefaultQuery)
	f.StringP("template", "t", config.DefaultTemplate, "caption template, "+caption.Placeholder+" is replaced with the name")
	f.Bool("crop", false, "crop transparent borders from the sprite")
	f.Int("max-dimension", config.DefaultMaxDimension,
		"largest sprite side in cells, 0 disables (default 0 when the terminal cannot display images)")
	f.String("image-protocol", termimg.ProtocolAuto, "auto, kitty, iterm, sixel, blocks or none")
	f.String("log-level", "warn", "debug, info, warn or error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(err))
		os.Exit(1)
	}
}

func runPokemonsay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, err)
	}
	applyFlags(cmd.Flags(), cfg)
	if err := cfg.Resolve(); err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, err)
	}
	log.Init(cfg.LogLevel)

	printer, err := termimg.Detect(cfg.ImageProtocol)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, err)
	}

	template := cfg.Template
	if piped, ok, err := caption.StdinTemplate(os.Stdin); err != nil {
		return errmsg.Wrap(errmsg.OpRenderCaption, err)
	} else if ok {
		template = piped
	}

	return run(cmd.Context(), cmd.OutOrStdout(), cfg, printer, template, termimg.Columns())
}

// run selects a pokemon and prints its sprite and caption to out.
// Nothing is written unless the pipeline succeeds.
func run(ctx context.Context, out io.Writer, cfg *config.Config, printer termimg.Printer, template string, columns int) error {
	sources, err := pipeline.OpenSources(cfg)
	if err != nil {
		return err
	}
	defer sources.Close()

	log.Debug("sources ready",
		"query_method", cfg.QueryMethod,
		"sprites_method", cfg.SpritesMethod,
		"protocol", printer.Name())

	res, err := pipeline.Run(ctx, pipeline.Options{
		Records:      sources.Records,
		Sprites:      sources.Sprites,
		Crop:         cfg.Crop,
		MaxDimension: cfg.GetMaxDimension(termimg.SupportsImages(printer)),
	})
	if err != nil {
		return err
	}

	if err := printer.Print(out, res.Image, res.Fit); err != nil {
		return errmsg.Wrap(errmsg.OpRenderSprite, err)
	}

	box := caption.Box(lipgloss.NewRenderer(out), caption.Render(template, res.Record.Name), columns)
	if _, err := fmt.Fprintln(out, box); err != nil {
		return errmsg.Wrap(errmsg.OpRenderCaption, err)
	}
	return nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(f *pflag.FlagSet, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	setString("query-method", &cfg.QueryMethod)
	setString("db-path", &cfg.DBPath)
	setString("sprites-method", &cfg.SpritesMethod)
	setString("sprites-dir", &cfg.SpritesDir)
	setString("graphql-url", &cfg.GraphQLURL)
	setString("db-pokemon-query", &cfg.Queries.Pokemon)
	setString("db-species-name-query", &cfg.Queries.SpeciesName)
	setString("db-sprites-query", &cfg.Queries.Sprites)
	setString("http-graphql-query", &cfg.Queries.GraphQL)
	setString("template", &cfg.Template)
	setString("image-protocol", &cfg.ImageProtocol)
	setString("log-level", &cfg.LogLevel)

	if f.Changed("crop") {
		cfg.Crop, _ = f.GetBool("crop")
	}
	if f.Changed("max-dimension") {
		n, _ := f.GetInt("max-dimension")
		cfg.MaxDimension = &n
	}
}
