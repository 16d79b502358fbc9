package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/korpuslab/korpustab/pkg/bigram"
	"github.com/korpuslab/korpustab/pkg/db"
	"github.com/korpuslab/korpustab/pkg/lexicon"
	"github.com/korpuslab/korpustab/pkg/pipeline"
)

var allStages = []string{"tables", "sentences", "positions", "bigrams"}

// parseStages splits and validates a comma-separated stage list.
func parseStages(s string) ([]string, error) {
	var stages []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		known := false
		for _, k := range allStages {
			if name == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown stage %q (valid: %s)", name, strings.Join(allStages, ", "))
		}
		stages = append(stages, name)
	}
	return stages, nil
}

func contains(stages []string, name string) bool {
	for _, s := range stages {
		if s == name {
			return true
		}
	}
	return false
}

// outputsExist reports whether every named output file is already present.
func outputsExist(dir string, names ...string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func main() {
	inFlag := flag.String("in", "", "Directory tree of vertical corpus files")
	outFlag := flag.String("out", ".", "Output directory for the generated tables")
	dbFlag := flag.String("db", "", "Optional SQLite database to materialize the tables into")
	workersFlag := flag.Int("workers", 0, "Concurrent per-file workers (0 = all CPUs, capped at the file count)")
	stagesFlag := flag.String("stages", strings.Join(allStages, ","), "Comma-separated stages to run")
	configFlag := flag.String("config", "", "Optional YAML config file; flags override its values")
	forceFlag := flag.Bool("force", false, "Rebuild outputs even if they already exist")
	flag.Parse()

	logger := log.New(os.Stderr, "[korpustab] ", log.LstdFlags)

	cfg := &pipeline.Config{OutputDir: "."}
	if *configFlag != "" {
		loaded, err := pipeline.LoadConfig(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Explicitly set flags win over the config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["in"] || cfg.InputDir == "" {
		cfg.InputDir = *inFlag
	}
	if set["out"] || cfg.OutputDir == "" {
		cfg.OutputDir = *outFlag
	}
	if set["workers"] || cfg.Workers == 0 {
		cfg.Workers = *workersFlag
	}
	if set["db"] || cfg.Database == "" {
		cfg.Database = *dbFlag
	}
	if set["stages"] || len(cfg.Stages) == 0 {
		stages, err := parseStages(*stagesFlag)
		if err != nil {
			log.Fatalf("Invalid -stages: %v", err)
		}
		cfg.Stages = stages
	} else if _, err := parseStages(strings.Join(cfg.Stages, ",")); err != nil {
		log.Fatalf("Invalid stages in config: %v", err)
	}

	if cfg.InputDir == "" {
		log.Fatal("No input directory: pass -in or set input_dir in the config")
	}
	if info, err := os.Stat(cfg.InputDir); err != nil || !info.IsDir() {
		log.Fatalf("Input directory %s is not readable: %v", cfg.InputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(cfg.InputDir, cfg.OutputDir)
	p.Workers = cfg.Workers
	p.Logger = logger

	files, err := p.CorpusFiles()
	if err != nil {
		log.Fatalf("Failed to scan input directory: %v", err)
	}
	logger.Printf("found %d corpus files under %s", len(files), cfg.InputDir)

	// Results computed this run; stages running in a later invocation can
	// reload the tuple table from disk instead.
	var (
		tab       *lexicon.Table
		star      *lexicon.Star
		positions []lexicon.PositionRow
		lbigrams  []bigram.Entry
		sentences []string
	)

	// loadTables restores the tuple table from a previous run and rebuilds
	// the star schema from it (the decomposition is deterministic).
	loadTables := func() error {
		if tab != nil {
			return nil
		}
		loaded, err := p.LoadTupleTable()
		if err != nil {
			return err
		}
		tab = loaded
		star = lexicon.BuildStar(tab)
		return nil
	}

	tableOutputs := []string{
		pipeline.WLPTFile, pipeline.WordsFile, pipeline.LemmasFile,
		pipeline.POSFile, pipeline.TagsFile, pipeline.FactsFile,
	}

	if contains(cfg.Stages, "tables") {
		if !*forceFlag && outputsExist(cfg.OutputDir, tableOutputs...) {
			logger.Printf("tables: outputs exist, skipping (use -force to rebuild)")
		} else {
			start := time.Now()
			tab, err = p.Extract(ctx, files)
			if err != nil {
				log.Fatalf("Extraction failed: %v", err)
			}
			star = lexicon.BuildStar(tab)
			if err := p.WriteTables(tab, star); err != nil {
				log.Fatalf("Failed to write tables: %v", err)
			}
			logger.Printf("tables: %d tuples, %d words, %d lemmas in %v",
				tab.Len(), star.Words.Len(), star.Lemmas.Len(), time.Since(start))
		}
	}

	if contains(cfg.Stages, "sentences") {
		if !*forceFlag && outputsExist(cfg.OutputDir, pipeline.SentencesFile) {
			logger.Printf("sentences: output exists, skipping")
		} else {
			start := time.Now()
			sentences, err = p.AssembleSentences(ctx, files)
			if err != nil {
				log.Fatalf("Sentence assembly failed: %v", err)
			}
			if err := p.WriteSentences(sentences); err != nil {
				log.Fatalf("Failed to write sentences: %v", err)
			}
			logger.Printf("sentences: %d in %v", len(sentences), time.Since(start))
		}
	}

	if contains(cfg.Stages, "positions") {
		if !*forceFlag && outputsExist(cfg.OutputDir, pipeline.PositionsFile) {
			logger.Printf("positions: output exists, skipping")
		} else {
			if err := loadTables(); err != nil {
				log.Fatalf("Position indexing needs the tuple table: %v", err)
			}
			start := time.Now()
			positions, err = p.IndexPositions(ctx, files, tab)
			if err != nil {
				log.Fatalf("Position indexing failed: %v", err)
			}
			if err := p.WritePositions(positions); err != nil {
				log.Fatalf("Failed to write positions: %v", err)
			}
			logger.Printf("positions: %d rows in %v", len(positions), time.Since(start))
		}
	}

	if contains(cfg.Stages, "bigrams") {
		if !*forceFlag && outputsExist(cfg.OutputDir, pipeline.BigramsFile) {
			logger.Printf("bigrams: output exists, skipping")
		} else {
			if err := loadTables(); err != nil {
				log.Fatalf("Bigram counting needs the word dictionary: %v", err)
			}
			start := time.Now()
			lbigrams = bigram.Count(star.Words.Entries())
			if err := p.WriteBigrams(lbigrams); err != nil {
				log.Fatalf("Failed to write bigrams: %v", err)
			}
			logger.Printf("bigrams: %d in %v", len(lbigrams), time.Since(start))
		}
	}

	if cfg.Database != "" {
		if err := loadTables(); err != nil {
			log.Fatalf("Database load needs the tuple table: %v", err)
		}
		// Stages skipped or omitted this run left their results empty.
		// Reload them from the output directory so the database carries
		// every table, and say which ones are genuinely absent.
		if positions == nil {
			if outputsExist(cfg.OutputDir, pipeline.PositionsFile) {
				if positions, err = p.LoadPositions(); err != nil {
					log.Fatalf("Failed to reload positions: %v", err)
				}
			} else {
				logger.Printf("database: %s not found, word_positions will be empty; run the positions stage", pipeline.PositionsFile)
			}
		}
		if sentences == nil {
			if outputsExist(cfg.OutputDir, pipeline.SentencesFile) {
				if sentences, err = p.LoadSentences(); err != nil {
					log.Fatalf("Failed to reload sentences: %v", err)
				}
			} else {
				logger.Printf("database: %s not found, sentences will be empty; run the sentences stage", pipeline.SentencesFile)
			}
		}
		if lbigrams == nil {
			// Cheap to recompute from the word dictionary already in hand.
			lbigrams = bigram.Count(star.Words.Entries())
		}
		conn, err := db.Open(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer conn.Close()

		start := time.Now()
		loader := db.NewLoader(conn)
		if err := loader.Load(tab, star, positions, lbigrams, sentences); err != nil {
			log.Fatalf("Database load failed: %v", err)
		}
		logger.Printf("database: loaded into %s in %v", cfg.Database, time.Since(start))
	}

	fmt.Println("Done.")
}
