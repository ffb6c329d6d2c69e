package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/xdrdef"
)

func newXDRCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "xdr", Short: "Work with XDR .x definition files"}

	cmd.AddCommand(&cobra.Command{
		Use:   "parse <file.x>...",
		Short: "Parse and resolve .x files and summarize their definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, schema, err := loadSchema(args)
			if err != nil {
				return err
			}
			for _, f := range files {
				printLine(cmd, fmt.Sprintf("%s: %d constants, %d typedefs, %d enums, %d structs, %d unions",
					f.Name, len(f.Constants), len(f.Typedefs), len(f.Enums), len(f.Structs), len(f.Unions)))
			}
			deps := schema.FileDependencies()
			names := make([]string, 0, len(deps))
			for name := range deps {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if len(deps[name]) > 0 {
					printLine(cmd, fmt.Sprintf("%s uses %v", name, deps[name]))
				}
			}
			return nil
		},
	})

	var byFile bool
	order := &cobra.Command{
		Use:   "order <file.x>...",
		Short: "Print the types, or with --files the files, in dependency order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, schema, err := loadSchema(args)
			if err != nil {
				return err
			}
			names := schema.Order()
			if byFile {
				if names, err = schema.FileOrder(); err != nil {
					return err
				}
			}
			for _, name := range names {
				printLine(cmd, name)
			}
			return nil
		},
	}
	order.Flags().BoolVar(&byFile, "files", false, "order files instead of types")
	cmd.AddCommand(order)

	var outDir string
	fetch := &cobra.Command{
		Use:   "fetch [version]",
		Short: "Download the .x files of a stellar-xdr release (default latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := "latest"
			if len(args) == 1 {
				version = args[0]
			}
			fetcher := xdrdef.NewFetcher(a.cfg.GitHubToken, a.cfg.XDRFetchTimeout)
			tag, files, failed, err := fetcher.Fetch(cmd.Context(), version)
			if err != nil {
				return err
			}
			dir := filepath.Join(outDir, tag)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for name, src := range files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
					return err
				}
			}
			printLine(cmd, fmt.Sprintf("fetched %d files of %s into %s", len(files), tag, dir))
			if len(failed) > 0 {
				return fmt.Errorf("could not fetch %v", failed)
			}
			return nil
		},
	}
	fetch.Flags().StringVarP(&outDir, "out", "o", "xdr", "directory to write <tag>/*.x into")
	cmd.AddCommand(fetch)
	return cmd
}

func loadSchema(paths []string) ([]*xdrdef.File, *xdrdef.Schema, error) {
	names := make([]string, 0, len(paths))
	sources := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		name := filepath.Base(p)
		if _, dup := sources[name]; dup {
			return nil, nil, fmt.Errorf("%s given twice", name)
		}
		names = append(names, name)
		sources[name] = string(data)
	}
	files, err := xdrdef.ParseFiles(names, sources)
	if err != nil {
		return nil, nil, err
	}
	schema, err := xdrdef.Resolve(files...)
	if err != nil {
		return nil, nil, err
	}
	return files, schema, nil
}
