// main.go
//
// Entry point for the word-search server and CLI.
//   - `wordsearch` / `wordsearch serve`: load config, open + migrate SQLite, serve HTTP.
//   - `wordsearch generate`: print a puzzle and its answer key to stdout.
//
// .env is loaded first (best effort) so every command sees the same config.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "wordsearch",
		Short:         "Word-search puzzle server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg = config.Load()
			setupLogging(cfg)
			if err := words.Init(cfg.WordsFile); err != nil {
				log.Error().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
				return err
			}
			return nil
		},
	}

	serve := serveCmd(&cfg)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, generateCmd(&cfg))
	return root
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func serveCmd(cfg *config.Config) *cobra.Command {
	var port, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			sqlDB, err := db.OpenAndMigrate(cfg.DBPath)
			if err != nil {
				log.Error().Err(err).Str("db", cfg.DBPath).Msg("database")
				return err
			}
			defer sqlDB.Close()

			srv := httpserver.New(*cfg, store.NewMemoryStore(), sqlDB)
			log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting wordsearch server")
			if err := srv.Start(cfg.Addr()); err != nil {
				log.Error().Err(err).Msg("server exited")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (overrides DB_PATH)")
	return cmd
}

func generateCmd(cfg *config.Config) *cobra.Command {
	var (
		size int
		seed int64
		list string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a puzzle and its answer key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size == 0 {
				size = cfg.GridSize
			}
			ws := words.Default()
			if list != "" {
				ws = strings.Split(list, ",")
			}
			sess, err := game.New(ws, game.Options{Size: size, Seed: seed, MaxAttempts: cfg.MaxAttempts})
			if err != nil {
				return err
			}
			printPuzzle(cmd.OutOrStdout(), sess)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "grid size (default GRID_SIZE)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible puzzle (0 = random)")
	cmd.Flags().StringVar(&list, "words", "", "comma-separated word list (default built-in list)")
	return cmd
}

// printPuzzle writes the grid, then one answer line (ends and direction) per placed word.
func printPuzzle(w io.Writer, sess *game.Session) {
	for _, row := range sess.Rows() {
		fmt.Fprintln(w, strings.Join(strings.Split(row, ""), " "))
	}
	fmt.Fprintln(w)
	for _, pl := range sess.Placements() {
		first, last := pl.Cells[0], pl.Cells[len(pl.Cells)-1]
		fmt.Fprintf(w, "%-12s (%d,%d) -> (%d,%d) %s\n", pl.Word, first.Row, first.Col, last.Row, last.Col, pl.Direction())
	}
	for _, word := range sess.Snapshot().Unplaced {
		fmt.Fprintf(w, "%-12s not placed\n", word)
	}
}
