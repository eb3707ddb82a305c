package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ligustah/symfetch/internal/store"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check that every asset in --out is a PNG and no temporary objects remain",
		Flags: append(commonFlags(),
			outFlag(),
			&cli.BoolFlag{Name: flagFix, Usage: "delete corrupt assets and leftover temporary objects"},
		),
		Action: runValidate,
	}
}

// runValidate scans the content store and reports corrupt assets and
// leftovers. Without --fix any finding fails the command.
func runValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return invalidArgs(err)
	}
	log := newLogger(c, cfg)
	defer log.Close()

	ctx := c.Context
	st, err := store.Open(ctx, cfg.Out)
	if err != nil {
		return storageError(err)
	}
	defer st.Close()

	fix := c.Bool(flagFix)
	result, err := store.Validate(ctx, st, fix)
	if err != nil {
		return storageError(err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Store: %s\n", cfg.Out)
	fmt.Fprintf(w, "Assets: %d\n", result.Assets)

	if result.Valid {
		fmt.Fprintln(w, "Status: VALID")
		return nil
	}

	fmt.Fprintln(w, "Status: INVALID")
	fmt.Fprintf(w, "Corrupt assets: %d\n", len(result.Corrupt))
	fmt.Fprintf(w, "Leftover temporaries: %d\n", len(result.Leftovers))
	for _, name := range result.Corrupt {
		fmt.Fprintf(w, "  - corrupt: %s\n", name)
	}
	for _, name := range result.Leftovers {
		fmt.Fprintf(w, "  - leftover: %s\n", name)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	if fix && result.Removed == len(result.Corrupt)+len(result.Leftovers) {
		fmt.Fprintf(w, "Removed: %d\n", result.Removed)
		log.Info().Int("removed", result.Removed).Msg("store repaired")
		return nil
	}
	return withCode(ExitValidationFailed, nil)
}
