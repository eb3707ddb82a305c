package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ligustah/symfetch/internal/idset"
	"github.com/ligustah/symfetch/internal/store"
)

func idsCommand() *cli.Command {
	flags := append(commonFlags(), outFlag())
	flags = append(flags, idSourceFlags()...)

	return &cli.Command{
		Name:  "ids",
		Usage: "print the resolved id list, one per line, without downloading",
		Description: "Applies the same sources, filters and cap as fetch. --out is only\n" +
			"consulted with --only-missing.",
		Flags:  flags,
		Action: runIDs,
	}
}

func runIDs(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return invalidArgs(err)
	}
	ctx := c.Context

	var checker idset.Checker
	if cfg.OnlyMissing && !cfg.Overwrite {
		st, err := store.Open(ctx, cfg.Out)
		if err != nil {
			return storageError(err)
		}
		defer st.Close()
		checker = st
	}

	ids, err := idset.Resolve(ctx, idOptions(c, cfg, checker))
	if err != nil {
		if errors.Is(err, idset.ErrCheck) {
			return storageError(err)
		}
		return invalidArgs(err)
	}

	for _, id := range ids {
		fmt.Fprintln(c.App.Writer, id)
	}
	return nil
}
