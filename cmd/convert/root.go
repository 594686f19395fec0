package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"doccoder-be/internal/config"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	to        string
	outDir    string
	theme     string
	landscape bool
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "doccoder",
		Short:         "Convert documents between formats locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConvertCmd(), newFormatsCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a file without any AI step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runConvert(ctx, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.to, "to", "pdf", "target format")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&opts.theme, "theme", string(codec.ThemeMinimal), "PDF theme: minimal, professional or photo")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "landscape PDF pages")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "conversion timeout")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			formats := newWriters(config.Load().Codec).Formats()
			names := make([]string, 0, len(formats))
			for _, f := range formats {
				names = append(names, string(f))
			}
			sort.Strings(names)
			color.Cyan("Output formats:")
			for _, n := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
			}
		},
	}
}

func newWriters(cfg config.CodecConfig) *codec.Registry {
	return codec.NewRegistry(codec.RegistryConfig{
		FontPath:    cfg.PDFFontPath,
		SectionMode: codec.SectionMode(cfg.SectionMode),
	})
}

func newReader(cfg config.CodecConfig) *codec.Reader {
	if cfg.PDFExtractor == "placeholder" {
		return codec.NewReader(codec.PlaceholderExtractor{})
	}
	return codec.NewReader(codec.NewPdfcpuExtractor())
}

func runConvert(ctx context.Context, path string, opts convertOptions) error {
	format, ok := codec.ParseTarget(opts.to)
	if !ok {
		return fmt.Errorf("output format %q is not supported", opts.to)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file := content.UploadedFile{Name: filepath.Base(path), Data: data}

	cfg := config.Load().Codec
	writers := newWriters(cfg)
	if !writers.Has(format) {
		return fmt.Errorf("output format %q is not supported", opts.to)
	}

	start := time.Now()
	extracted, err := newReader(cfg).Read(ctx, file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}

	src := codec.Detect(file.Name, "", data)
	in := codec.WriteInput{
		Name:       utils.OutputName(file.Name, "", ""),
		SourceName: file.Name,
		Text:       extracted.Text,
	}
	if format == codec.FormatPDF {
		in.PDF = codec.PDFOptions{
			Theme:       codec.Theme(opts.theme),
			Landscape:   opts.landscape,
			Code:        src == codec.FormatCode,
			Spreadsheet: src == codec.FormatXLSX || src == codec.FormatCSV,
		}
		switch {
		case extracted.Image != nil:
			in.PDF.Image = extracted.Image
		case src == codec.FormatPDF:
			in.PDF.SourcePDF = data
		}
	}

	res, err := writers.Write(ctx, format, in)
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(opts.outDir, utils.OutputName(file.Name, "", utils.Ext(res.SuggestedName)))
	if abs, _ := filepath.Abs(out); abs != "" {
		if srcPath, _ := filepath.Abs(path); abs == srcPath {
			return fmt.Errorf("refusing to overwrite the source file %s", path)
		}
	}
	if err := os.WriteFile(out, res.Bytes, 0o644); err != nil {
		return err
	}

	color.Green("Wrote %s (%d bytes, %s)", out, len(res.Bytes), time.Since(start).Round(time.Millisecond))
	if res.LowFidelity {
		color.Yellow("Low fidelity conversion: layout was simplified")
	}
	return nil
}
