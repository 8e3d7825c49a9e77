package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"film-map-cli/catalog"
	"film-map-cli/model"
)

const (
	sortByTitle  = "title"
	sortByRegion = "region"
)

func newListCommand(a *app) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != sortByTitle && by != sortByRegion {
				return fmt.Errorf("invalid --by %q (want %q or %q)", by, sortByTitle, sortByRegion)
			}
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return renderList(cmd.OutOrStdout(), c, by)
		},
	}
	cmd.Flags().StringVar(&by, "by", sortByRegion, "sort order: title or region")
	return cmd
}

func renderList(out io.Writer, c *catalog.Catalog, by string) error {
	films := c.ByRegionName()
	if by == sortByTitle {
		films = c.ByTitle()
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Region", "Code", "Title", "Year", "Colour"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 40},
		{Number: 4, Align: text.AlignRight},
	})
	for _, film := range films {
		t.AppendRow(filmRow(film))
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d films", len(films))})
	t.Render()
	return nil
}

func filmRow(film model.Film) table.Row {
	year := ""
	if film.Year != 0 {
		year = strconv.Itoa(film.Year)
	}
	return table.Row{film.RegionName, film.RegionCode, film.Title, year, film.AssignedColour}
}
