package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
)

type plantTable []mockdata.Plant

func (plantTable) TableHeaders() []string { return []string{"PLANT", "COMMON NAME"} }

func (t plantTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{p.Name, p.Common})
	}
	return rows
}

type engineTable []research.DockingEngine

func (engineTable) TableHeaders() []string { return []string{"ENGINE", "NAME", "DESCRIPTION"} }

func (t engineTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{e.ID, e.Name, e.Description})
	}
	return rows
}

type listTable struct {
	header string
	items  []string
}

func (t listTable) TableHeaders() []string { return []string{"#", t.header} }

func (t listTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.items))
	for i, it := range t.items {
		rows = append(rows, []string{strconv.Itoa(i + 1), it})
	}
	return rows
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the choices offered by the pipeline screens",
	}
	cmd.AddCommand(
		catalogLeaf("plants", "Known plants", func(json bool) any {
			if json {
				return mockdata.Plants()
			}
			return plantTable(mockdata.Plants())
		}),
		catalogLeaf("engines", "Docking engines", func(json bool) any {
			if json {
				return mockdata.Engines()
			}
			return engineTable(mockdata.Engines())
		}),
		catalogLeaf("plant-parts", "Plant parts", func(json bool) any {
			return listOrJSON(json, "PLANT PART", mockdata.PlantParts())
		}),
		catalogLeaf("tags", "Suggested project tags", func(json bool) any {
			return listOrJSON(json, "TAG", mockdata.SuggestedTags())
		}),
		catalogLeaf("docking-targets", "Docking targets", func(json bool) any {
			return listOrJSON(json, "TARGET", mockdata.DockingTargets())
		}),
	)
	return cmd
}

func listOrJSON(json bool, header string, items []string) any {
	if json {
		return items
	}
	return listTable{header: header, items: items}
}

func catalogLeaf(use, short string, data func(json bool) any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			asJSON := err == nil && strings.EqualFold(cc.OutputFormat, "json")
			return PrintResult(cmd, data(asJSON))
		},
	}
}
