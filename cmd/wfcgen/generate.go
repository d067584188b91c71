package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/catalog/loader"
	"github.com/wfcgen/wfcgen/config"
	"github.com/wfcgen/wfcgen/engine"
	"github.com/wfcgen/wfcgen/macro"
)

// cellResult is one entry of the generate command's final grid dump.
type cellResult struct {
	Cell int `json:"cell"`
	Tile int `json:"tile"`
}

func newGenerateCmd() *cobra.Command {
	var outPath string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a generation session to completion and print the resulting tile grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			tiles, err := loader.Load(cfg.CatalogPath, logger)
			var archived *loader.ErrArchived
			if errors.As(err, &archived) {
				return fmt.Errorf("catalog %s was invalid and has been archived to %s: %s", cfg.CatalogPath, archived.ArchivePath, archived.Reason)
			} else if err != nil {
				return err
			}

			variants, err := catalog.Prepare(tiles, cfg.AllowRotate)
			if err != nil {
				return fmt.Errorf("preparing catalog: %w", err)
			}

			var macroCfg *macro.Config
			if cfg.Macro != nil {
				mc := macro.DefaultConfig()
				if cfg.Macro.Continents > 0 {
					mc.Continents = cfg.Macro.Continents
				}
				if cfg.Macro.GrassChar != "" {
					mc.GrassChar = cfg.Macro.GrassChar[0]
				}
				macroCfg = &mc
			}

			eng, err := engine.New(variants, engine.Config{
				GridW:           cfg.GridW,
				GridH:           cfg.GridH,
				Seed:            cfg.Seed,
				MaxRestarts:     cfg.MaxRestarts,
				Macro:           macroCfg,
				ReseedOnRestart: cfg.ReseedOnRestart,
				Logger:          logger,
			})
			if err != nil {
				return fmt.Errorf("constructing engine: %w", err)
			}

			for !eng.Terminal() {
				for _, ev := range eng.Step(batchSize) {
					if ev.Kind == engine.KindError {
						return fmt.Errorf("generation failed: %s", ev.Message)
					}
				}
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}
			return dumpGrid(out, eng)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the resulting grid to this file instead of stdout")
	cmd.Flags().IntVar(&batchSize, "batch", 256, "collapses per engine.Step call")
	return cmd
}

func dumpGrid(w *os.File, eng *engine.Engine) error {
	results := make([]cellResult, 0, eng.NumCells())
	for c := 0; c < eng.NumCells(); c++ {
		results = append(results, cellResult{Cell: c, Tile: eng.TileOf(c)})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(results)
}
