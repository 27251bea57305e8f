// Command genscenarios draws random combat scenarios from a Scryfall card
// dump, solves each one with the blocking search, and writes the solved
// dataset to a JSON lines file or to PostgreSQL.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/blocking"
	"github.com/magiccombat/combat-server-go/internal/cards"
	"github.com/magiccombat/combat-server-go/internal/config"
	"github.com/magiccombat/combat-server-go/internal/repository"
	"github.com/magiccombat/combat-server-go/internal/scenario"
)

var (
	cardsPath  = flag.String("cards", "cards.json", "path to Scryfall card dump")
	count      = flag.Int("count", 100, "number of scenarios to generate")
	seed       = flag.Int64("seed", 1, "random seed")
	nAttackers = flag.Int("attackers", 3, "attackers per scenario")
	nBlockers  = flag.Int("blockers", 3, "blockers per scenario")
	outPath    = flag.String("out", "scenarios.jsonl", "output file (ignored with -db)")
	useDB      = flag.Bool("db", false, "persist to PostgreSQL instead of a file")
	configPath = flag.String("config", "", "path to configuration file (optional)")
)

// solvedRecord is one line of the JSONL output.
type solvedRecord struct {
	Scenario   json.RawMessage `json:"scenario"`
	Blocks     []int           `json:"blocks"`
	Score      json.RawMessage `json:"score"`
	Iterations int             `json:"iterations"`
}

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	pool, err := cards.Load(*cardsPath)
	if err != nil {
		return err
	}
	logger.Info("card pool loaded",
		zap.String("path", *cardsPath),
		zap.Int("cards", len(pool)),
	)

	ctx := context.Background()
	var sink func(*scenario.Scenario, *blocking.SearchResult) error

	if *useDB {
		if !cfg.Database.Enabled() {
			return errors.New("-db requires database configuration")
		}
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := repository.NewScenarioRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = func(sc *scenario.Scenario, res *blocking.SearchResult) error {
			return repo.Save(ctx, sc, res.Assignment.Blocks, res.Score, res.Iterations)
		}
	} else {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *outPath, err)
		}
		defer f.Close()
		w := bufio.NewWriter(f)
		defer w.Flush()
		enc := json.NewEncoder(w)
		sink = func(sc *scenario.Scenario, res *blocking.SearchResult) error {
			snapshot, err := scenario.Encode(sc)
			if err != nil {
				return err
			}
			score, err := json.Marshal(res.Score)
			if err != nil {
				return err
			}
			return enc.Encode(solvedRecord{
				Scenario:   snapshot,
				Blocks:     res.Assignment.Blocks,
				Score:      score,
				Iterations: res.Iterations,
			})
		}
	}

	gen := scenario.NewGenerator(*seed, pool)
	solved, skipped := 0, 0
	for solved < *count {
		sc, err := gen.Scenario(*nAttackers, *nBlockers)
		if err != nil {
			return err
		}
		searcher := blocking.NewSearcher(logger,
			blocking.WithMaxIterations(cfg.Search.MaxIterations),
			blocking.WithStartingLife(sc.AttackerLife, sc.DefenderLife),
		)
		res, err := searcher.FindOptimalBlocks(sc.Attackers, sc.Blockers)
		if errors.Is(err, blocking.ErrIterationLimit) {
			skipped++
			logger.Warn("scenario exceeded iteration budget, skipping",
				zap.String("scenario_id", sc.ID),
			)
			continue
		}
		if err != nil {
			return err
		}
		if err := sink(sc, res); err != nil {
			return err
		}
		solved++
		if solved%50 == 0 {
			logger.Info("progress", zap.Int("solved", solved), zap.Int("skipped", skipped))
		}
	}

	logger.Info("dataset complete",
		zap.Int("solved", solved),
		zap.Int("skipped", skipped),
		zap.Int64("seed", *seed),
	)
	return nil
}
