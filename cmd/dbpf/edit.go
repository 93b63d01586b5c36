package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/plumbob/dbpf"
)

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract one resource's uncompressed bytes",
		ArgsUsage: "<package> <type:group:instance>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"out"},
				Usage:   "Output path (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, keyArg := cmd.Args().Get(0), cmd.Args().Get(1)
			if path == "" || keyArg == "" {
				return fmt.Errorf("usage: dbpf extract <package> <type:group:instance>")
			}
			key, err := parseKey(keyArg)
			if err != nil {
				return err
			}
			p, err := dbpf.OpenFile(path)
			if err != nil {
				return err
			}
			defer p.Close()

			e, ok := p.Find(key)
			if !ok {
				return fmt.Errorf("no resource %s in %s", key, path)
			}
			data, err := p.ResourceData(e)
			if err != nil {
				return err
			}
			if out := cmd.String("output"); out != "" {
				return os.WriteFile(out, data, 0o644)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a resource to a package, creating the package if needed",
		ArgsUsage: "<package> <type:group:instance> <file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Overwrite an existing resource with the same key",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, keyArg, src := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
			if path == "" || keyArg == "" || src == "" {
				return fmt.Errorf("usage: dbpf add <package> <type:group:instance> <file>")
			}
			key, err := parseKey(keyArg)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}

			p, err := openOrCreate(path)
			if err != nil {
				return err
			}
			defer p.Close()

			if e, ok := p.Find(key); ok {
				if !cmd.Bool("replace") {
					return fmt.Errorf("resource %s already exists (use --replace)", key)
				}
				if err := p.ReplaceResource(e, data); err != nil {
					return err
				}
			} else if _, err := p.AddResource(key, data); err != nil {
				return err
			}
			return saveOver(p, path)
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove a resource from a package",
		ArgsUsage: "<package> <type:group:instance>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, keyArg := cmd.Args().Get(0), cmd.Args().Get(1)
			if path == "" || keyArg == "" {
				return fmt.Errorf("usage: dbpf delete <package> <type:group:instance>")
			}
			key, err := parseKey(keyArg)
			if err != nil {
				return err
			}
			p, err := dbpf.OpenFile(path)
			if err != nil {
				return err
			}
			defer p.Close()

			e, ok := p.Find(key)
			if !ok {
				return fmt.Errorf("no resource %s in %s", key, path)
			}
			if err := p.DeleteResource(e); err != nil {
				return err
			}
			return saveOver(p, path)
		},
	}
}

// openOrCreate opens an existing package or starts an empty one when the
// file does not exist yet.
func openOrCreate(path string) (*dbpf.Package, error) {
	p, err := dbpf.OpenFile(path)
	if err == nil {
		return p, nil
	}
	if os.IsNotExist(err) {
		return dbpf.New(), nil
	}
	return nil, err
}

// saveOver writes p back to the path it was opened from. The package is
// closed before the final rename: all reads happen during the temp-file
// write, and Windows refuses to rename over a file that is still open.
func saveOver(p *dbpf.Package, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dbpf-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := p.SaveTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := p.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
