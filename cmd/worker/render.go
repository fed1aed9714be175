package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/logo/render"
	"github.com/logogen/logogen-backend/internal/storage/blob"
)

func renderCmd() *cobra.Command {
	var (
		data     logo.LogoData
		pkg      string
		out      string
		fontsDir string
	)

	c := &cobra.Command{
		Use:   "render",
		Short: "Render the files a package ships into a local directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := data.Validate(); err != nil {
				return err
			}
			p, err := logo.LookupPackage(pkg)
			if err != nil {
				return err
			}
			raster, err := newRasterizer(fontsDir)
			if err != nil {
				return err
			}

			abs, err := filepath.Abs(out)
			if err != nil {
				return err
			}
			store, err := blob.NewDirStore(abs, "file://"+filepath.ToSlash(abs))
			if err != nil {
				return err
			}

			files, err := raster.GenerateFiles(data, p.ID)
			if err != nil {
				return err
			}
			for _, ft := range p.Formats {
				url, err := store.Put(cmd.Context(), "logo."+string(ft), files[ft], ft.ContentType())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}

	c.Flags().StringVar(&data.BusinessName, "business", "", "Business name (required)")
	c.Flags().StringVar(&data.Tagline, "tagline", "", "Tagline")
	c.Flags().StringVar(&data.FontFamily, "font", "", "Font family")
	c.Flags().StringVar(&data.PrimaryColor, "primary", "", "Primary color (#rrggbb)")
	c.Flags().StringVar(&data.SecondaryColor, "secondary", "", "Secondary color (#rrggbb)")
	c.Flags().StringVarP(&pkg, "package", "p", string(logo.PackageStandard), "Package: standard or premium")
	c.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	c.Flags().StringVar(&fontsDir, "fonts", "", "Extra font directory")

	_ = c.MarkFlagRequired("business")
	return c
}

func newRasterizer(fontsDir string) (*render.Rasterizer, error) {
	fonts, err := render.NewFontRegistry()
	if err != nil {
		return nil, err
	}
	if fontsDir != "" {
		if _, err := fonts.LoadDir(fontsDir); err != nil {
			return nil, fmt.Errorf("load fonts: %w", err)
		}
	}
	return render.NewRasterizer(fonts), nil
}
