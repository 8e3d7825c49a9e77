package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"film-map-cli/detail"
	"film-map-cli/regionmap"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show REGION",
		Short: "Print the details of the film chosen for a region",
		Long: `Print the details of the film chosen for a region. REGION may be a
code (CA-ON), an abbreviation (ON) or a name (Ontario).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			code := strings.TrimSpace(args[0])
			if r, ok := regionmap.ResolveRegion(regionmap.Canada, code); ok {
				code = r.ID
			}
			film, ok := c.Get(code)
			if !ok {
				return fmt.Errorf("no film for region %q", args[0])
			}
			writeDetail(cmd.OutOrStdout(), detail.Project(film))
			return nil
		},
	}
}

func writeDetail(out io.Writer, v detail.View) {
	fmt.Fprintln(out, v.Heading())
	fmt.Fprintf(out, "Region: %s (%s)\n", v.RegionName, v.RegionCode)
	if v.ShowOriginalTitle {
		fmt.Fprintf(out, "Original title: %s\n", v.OriginalTitle)
	}
	if v.Flag.Visible {
		fmt.Fprintf(out, "Flag: %s\n", v.Flag.URL)
	}
	if v.Poster.Visible {
		fmt.Fprintf(out, "Poster: %s\n", v.Poster.URL)
	} else {
		fmt.Fprintln(out, "Poster: none")
	}
	if v.Reviewer != "" {
		fmt.Fprintf(out, "Reviewed by: %s\n", v.Reviewer)
	}

	links := v.VisibleLinks()
	if len(links) == 0 {
		fmt.Fprintln(out, "No links.")
		return
	}
	fmt.Fprintln(out)
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Link", "URL"})
	for _, link := range links {
		t.AppendRow(table.Row{link.Label, link.URL})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
