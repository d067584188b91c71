package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wfcgen/wfcgen/catalog"
	"github.com/wfcgen/wfcgen/catalog/loader"
)

func newValidateCatalogCmd() *cobra.Command {
	var allowRotate bool

	cmd := &cobra.Command{
		Use:   "validate-catalog <path>",
		Short: "Load, normalize, and prepare a catalog file, reporting the resulting variant count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			tiles, err := loader.Load(path, logger)
			var archived *loader.ErrArchived
			if errors.As(err, &archived) {
				return fmt.Errorf("invalid: %s (archived to %s)", archived.Reason, archived.ArchivePath)
			} else if err != nil {
				return err
			}

			variants, err := catalog.Prepare(tiles, allowRotate)
			if err != nil {
				return fmt.Errorf("invalid: %w", err)
			}

			fmt.Printf("ok: %d base tiles, %d variants (allowRotate=%t)\n", len(tiles), len(variants), allowRotate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowRotate, "allow-rotate", false, "expand each tile into its four rotations")
	return cmd
}
