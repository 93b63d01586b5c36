package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/plumbob/dbpf"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print a summary of a package file",
		ArgsUsage: "<package>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("missing package path")
			}
			p, err := dbpf.OpenFile(path)
			if err != nil {
				return err
			}
			defer p.Close()

			var compressed int
			types := map[uint32]int{}
			for e := range p.Entries() {
				if e.Compressed() {
					compressed++
				}
				types[e.Key().Type]++
			}
			fmt.Printf("%s: %d resources (%d compressed), %d distinct types\n",
				path, p.Len(), compressed, len(types))
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the resources in a package file",
		ArgsUsage: "<package>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit one JSON object per resource",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("missing package path")
			}
			p, err := dbpf.OpenFile(path)
			if err != nil {
				return err
			}
			defer p.Close()

			if !cmd.Bool("json") {
				for e := range p.Entries() {
					fmt.Printf("%s  %10d bytes  compressed=%v\n",
						e.Key(), e.UncompressedSize(), e.Compressed())
				}
				return nil
			}

			type row struct {
				Type       string `json:"type"`
				Group      string `json:"group"`
				Instance   string `json:"instance"`
				Size       uint32 `json:"size"`
				Compressed bool   `json:"compressed"`
			}
			enc := json.NewEncoder(os.Stdout)
			for e := range p.Entries() {
				k := e.Key()
				if err := enc.Encode(row{
					Type:       fmt.Sprintf("0x%08X", k.Type),
					Group:      fmt.Sprintf("0x%08X", k.Group),
					Instance:   fmt.Sprintf("0x%016X", k.Instance),
					Size:       e.UncompressedSize(),
					Compressed: e.Compressed(),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
