package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ezBadminton/ttrank/internal/api"
	"github.com/ezBadminton/ttrank/internal/document"
	"github.com/ezBadminton/ttrank/internal/report"
	"github.com/ezBadminton/ttrank/internal/spreadsheet"
)

var (
	ErrNoInput      = errors.New("no input files")
	ErrOutputFormat = errors.New("unknown output format")
)

func (rt *commandEnv) rankCommand() *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Usage:     "rank the competitions of the given files",
		ArgsUsage: "FILE... (.yaml, .json or .xlsx, - reads YAML from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "text, json or xlsx",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			format := strings.ToLower(c.String("format"))
			if format != "text" && format != "json" && format != "xlsx" {
				return fmt.Errorf("%w: %s", ErrOutputFormat, format)
			}

			docs, err := rt.readDocuments(c.Args().Slice())
			if err != nil {
				return err
			}
			if format == "xlsx" && len(docs) != 1 {
				return fmt.Errorf("%w: xlsx holds exactly one competition, got %d", ErrOutputFormat, len(docs))
			}

			reports, err := rt.service.RankAll(c.Context, docs)
			if err != nil {
				return err
			}

			return rt.withOutput(c.String("output"), func(w io.Writer) error {
				return writeReports(w, reports, format)
			})
		},
	}
}

func (rt *commandEnv) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the ranking API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides the config",
			},
		},
		Action: func(c *cli.Context) error {
			addr := rt.cfg.Addr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			handler := api.NewHandler(rt.service, rt.metrics, rt.logger, rt.cfg.MaxBodyBytes)
			rt.logger.Info("starting server",
				zap.String("addr", addr),
				zap.Int("workers", rt.cfg.Workers),
			)
			return api.Serve(c.Context, addr, handler.Router(), rt.logger)
		},
	}
}

func (rt *commandEnv) convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert competition files to YAML or JSON",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Value: "yaml",
				Usage: "yaml or json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			var format document.Format
			switch strings.ToLower(c.String("to")) {
			case "yaml", "yml":
				format = document.YAML
			case "json":
				format = document.JSON
			default:
				return fmt.Errorf("%w: %s", ErrOutputFormat, c.String("to"))
			}

			docs, err := rt.readDocuments(c.Args().Slice())
			if err != nil {
				return err
			}

			return rt.withOutput(c.String("output"), func(w io.Writer) error {
				return document.EncodeAll(w, docs, format)
			})
		},
	}
}

// Reads all documents of the files in order
func (rt *commandEnv) readDocuments(paths []string) ([]*document.Document, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	docs := make([]*document.Document, 0, len(paths))
	for _, path := range paths {
		read, err := rt.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, doc := range read {
			if doc.Name == "" && path != "-" {
				doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
		}
		docs = append(docs, read...)
	}
	return docs, nil
}

func (rt *commandEnv) readFile(path string) ([]*document.Document, error) {
	if path == "-" {
		return document.DecodeAll(rt.stdin, document.YAML)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		doc, err := spreadsheet.ReadDocument(f)
		if err != nil {
			return nil, err
		}
		return []*document.Document{doc}, nil
	}

	format, err := document.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return document.DecodeAll(bufio.NewReader(f), format)
}

func (rt *commandEnv) withOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(rt.stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeReports(w io.Writer, reports []*report.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case "xlsx":
		return spreadsheet.WriteReport(w, reports[0])
	}

	for i, rep := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := rep.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}
