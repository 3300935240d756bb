package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
)

// stageTable renders the stage graph.
type stageTable []pipeline.Stage

func (stageTable) TableHeaders() []string {
	return []string{"STAGE", "LABEL", "STEP", "DATA KEY", "NEXT"}
}

func (t stageTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		step := "-"
		if s.Step > 0 {
			step = strconv.Itoa(s.Step)
		}
		key := "-"
		if s.DataKey != "" {
			key = string(s.DataKey)
		}
		next := make([]string, 0, len(s.Branches))
		for _, b := range s.Branches {
			next = append(next, string(b))
		}
		rows = append(rows, []string{string(s.Key), s.Label, step, key, strings.Join(next, "|")})
	}
	return rows
}

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Print the pipeline stage graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err == nil && cc.OutputFormat == "json" {
				return PrintResult(cmd, pipeline.Stages())
			}
			return PrintResult(cmd, stageTable(pipeline.Stages()))
		},
	}
}
