package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"film-map-cli/logging"
	"film-map-cli/regionmap"
	"film-map-cli/viewstate"
)

func newExportSVGCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-svg",
		Short: "Write the colour-coded region map as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			ctrl := viewstate.New(c, viewstate.Options{NewMap: regionmap.CanadaFactory})
			ctrl.Start()
			defer ctrl.Close()

			colours := ctrl.RegionColours()
			titles := make(map[string]string, len(regionmap.Canada))
			for _, r := range regionmap.Canada {
				if tip, ok := ctrl.Hover(r.ID); ok {
					titles[r.ID] = tip
				}
			}

			if output == "" || output == "-" {
				return regionmap.WriteSVG(cmd.OutOrStdout(), regionmap.Canada, colours, titles)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := regionmap.WriteSVG(f, regionmap.Canada, colours, titles); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logging.Trace("svg.exported", map[string]interface{}{"path": output, "regions": len(colours)})
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", `output file ("-" for stdout)`)
	return cmd
}
