package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/bitmaptrie/trieserve/config"
	"github.com/bitmaptrie/trieserve/dictionary"
	csvingest "github.com/bitmaptrie/trieserve/ingest/csv"
)

// loadCSVAction is a one-shot helper for validating that a CSV file
// loads cleanly against a declared dictionary's schema: it builds the
// named dictionary from --config, loads --file into it, and reports
// the row count. It does not start
// either server; the dictionary it builds exists only for this run.
func loadCSVAction(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return err
	}

	name := ctx.String(csvDictionaryFlag.Name)
	var schema []dictionary.AttributeDef
	found := false
	for _, dc := range cfg.Dictionaries {
		if dc.Name == name {
			schema = dc.Schema()
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no dictionary named %q declared in config", name)
	}

	file := ctx.String(csvFileFlag.Name)
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open csv file %s: %w", file, err)
	}
	defer f.Close()

	dict := dictionary.New(schema)
	count, err := csvingest.LoadDictionary(f, dict, ctx.BoolT(csvHasHeadersFlag.Name))
	if err != nil {
		return fmt.Errorf("load csv into dictionary %s: %w", name, err)
	}

	fmt.Printf("loaded %d rows into dictionary %q\n", count, name)
	return nil
}
