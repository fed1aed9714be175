package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/logogen/logogen-backend/internal/catalog"
	"github.com/logogen/logogen-backend/internal/editor"
	"github.com/logogen/logogen-backend/internal/preview"
)

func previewCmd() *cobra.Command {
	var (
		req      preview.Request
		format   string
		size     string
		out      string
		fontsDir string
	)

	c := &cobra.Command{
		Use:   "preview",
		Short: "Render a watermarked template preview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			raster, err := newRasterizer(fontsDir)
			if err != nil {
				return err
			}

			req.Format = editor.Format(format)
			req.Size = editor.SizeName(size)
			img, err := preview.NewService(cat, raster).Render(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := filepath.Join(out, img.FileName)
			if err := os.WriteFile(path, img.Data, 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	c.Flags().StringVarP(&req.TemplateID, "template", "t", "", "Template id (required)")
	c.Flags().StringVar(&req.LogoData.BusinessName, "business", "", "Business name (required)")
	c.Flags().StringVar(&req.LogoData.Tagline, "tagline", "", "Tagline")
	c.Flags().StringVar(&req.LogoData.FontFamily, "font", "", "Font family")
	c.Flags().StringVar(&req.LogoData.PrimaryColor, "primary", "", "Primary color (#rrggbb)")
	c.Flags().StringVar(&req.LogoData.SecondaryColor, "secondary", "", "Secondary color (#rrggbb)")
	c.Flags().StringVarP(&format, "format", "f", string(editor.FormatPNG), "png or jpg")
	c.Flags().StringVarP(&size, "size", "s", string(editor.SizeMedium), "Export size name")
	c.Flags().IntVar(&req.Thumbnail, "thumbnail", 0, "Fit into an N x N box")
	c.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	c.Flags().StringVar(&fontsDir, "fonts", "", "Extra font directory")

	_ = c.MarkFlagRequired("template")
	_ = c.MarkFlagRequired("business")
	return c
}
