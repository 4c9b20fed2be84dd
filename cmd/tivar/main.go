// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command tivar inspects TI variable files and packs them into
// calculator bundles.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/calctools/tifile"
	"github.com/calctools/tifile/bundle"
)

func main() {
	app := &cli.Command{
		Name:  "tivar",
		Usage: "Inspect TI-8x variable files and build b83/b84 bundles",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			packCmd(),
			unpackCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type entryInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	TypeByte uint8  `json:"typeByte"`
	Version  uint8  `json:"version"`
	Archived bool   `json:"archived"`
	Size     int    `json:"size"`
}

type fileInfo struct {
	Signature string      `json:"signature"`
	Comment   string      `json:"comment"`
	Checksum  uint16      `json:"checksum"`
	Warnings  []string    `json:"warnings,omitempty"`
	Entries   []entryInfo `json:"entries"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the structure of a variable file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit machine-readable JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("inspect: expected one file argument")
			}
			path := cmd.Args().First()

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			f, err := tifile.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			info := fileInfo{
				Signature: f.Signature.String(),
				Comment:   f.Comment.String(),
				Checksum:  f.Checksum,
			}
			for _, w := range f.Warnings {
				info.Warnings = append(info.Warnings, w.String())
			}
			for i := range f.Entries {
				e := &f.Entries[i]
				info.Entries = append(info.Entries, entryInfo{
					Name:     e.Name,
					Type:     e.Type.String(),
					TypeByte: uint8(e.Type),
					Version:  e.Version,
					Archived: e.Archived(),
					Size:     len(e.Data),
				})
			}

			if cmd.Bool("json") {
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("signature: %s\n", info.Signature)
			fmt.Printf("comment:   %s\n", info.Comment)
			fmt.Printf("checksum:  %#04x\n", info.Checksum)
			for _, w := range info.Warnings {
				fmt.Printf("warning:   %s\n", w)
			}
			for _, e := range info.Entries {
				archived := ""
				if e.Archived {
					archived = " (archived)"
				}
				fmt.Printf("  %-8s  %-16s  %5d bytes%s\n", e.Name, e.Type, e.Size, archived)
			}
			return nil
		},
	}
}

func packCmd() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack variable files into a bundle",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Output bundle path",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Target device: 83 or 84",
				Value: "84",
			},
			&cli.StringFlag{
				Name:  "comments",
				Usage: "Free-text bundle comment",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("pack: expected at least one variable file")
			}

			kind := bundle.B84
			switch cmd.String("device") {
			case "83":
				kind = bundle.B83
			case "84":
			default:
				return fmt.Errorf("pack: unknown device %q", cmd.String("device"))
			}

			b := bundle.NewBuilder(kind)
			if c := cmd.String("comments"); c != "" {
				b.SetComments(c)
			}
			for _, path := range cmd.Args().Slice() {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				// validate before bundling so a broken input fails
				// loudly instead of producing a bundle calculators
				// reject later
				if _, err := tifile.Parse(data); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				b.AddFile(filepath.Base(path), data)
			}

			archive, err := b.Bytes()
			if err != nil {
				return err
			}
			return os.WriteFile(cmd.String("out"), archive, 0o644)
		},
	}
}

func unpackCmd() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Extract a bundle's variable files",
		ArgsUsage: "<bundle>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to extract into",
				Value:   ".",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("unpack: expected one bundle argument")
			}

			archive, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			b, err := bundle.Read(archive)
			if err != nil {
				return err
			}
			if b.ChecksumMismatch {
				fmt.Fprintln(os.Stderr, "warning: bundle checksum mismatch")
			}

			dir := cmd.String("dir")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for name, data := range b.Files {
				// entry names come from the archive; keep extraction
				// inside the target directory
				dst := filepath.Join(dir, filepath.Base(name))
				if err := os.WriteFile(dst, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d bytes)\n", dst, len(data))
			}
			return nil
		},
	}
}
