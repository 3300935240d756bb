package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/infrastructure/mockdata"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the OpenSearch phytochemical index",
	}
	cmd.AddCommand(newIndexSeedCmd())
	return cmd
}

func newIndexSeedCmd() *cobra.Command {
	var (
		plant string
		parts []string
		wait  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference phytochemicals of a plant into the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			oc := cc.Config.OpenSearch
			if !oc.Enabled {
				return errors.New(errors.ErrCodeServiceUnavailable, "opensearch is disabled in the configuration")
			}
			docs, err := SeedDocuments(plant, parts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cc.Timeout)
			defer cancel()
			client, err := opensearch.NewClient(ctx, opensearch.ClientConfig{
				Addresses: oc.Addresses,
				Username:  oc.Username,
				Password:  oc.Password,
			}, cc.Logger)
			if err != nil {
				return err
			}
			refresh := "false"
			if wait {
				refresh = "wait_for"
			}
			idx := opensearch.NewIndexer(client, oc.Index, refresh, cc.Logger)
			if err := idx.EnsureIndex(ctx); err != nil {
				return err
			}
			n, err := idx.BulkIndex(ctx, docs)
			if err != nil {
				return err
			}
			return PrintResult(cmd, fmt.Sprintf("indexed %d documents into %s", n, oc.Index))
		},
	}
	cmd.Flags().StringVar(&plant, "plant", mockdata.Plants()[0].Name, "plant the compounds are filed under")
	cmd.Flags().StringSliceVar(&parts, "part", nil, "plant parts to file under (default: every part)")
	cmd.Flags().BoolVar(&wait, "wait", true, "wait for the documents to become searchable")
	return cmd
}

// SeedDocuments files every reference phytochemical under plant and each of
// parts, listed in all default databases.
func SeedDocuments(plant string, parts []string) ([]opensearch.CompoundDocument, error) {
	plant = strings.TrimSpace(plant)
	if plant == "" {
		return nil, errors.Validation("plant", "plant name is required")
	}
	if len(parts) == 0 {
		parts = mockdata.PlantParts()
	}
	dbs := mockdata.DefaultDatabases().Names()
	compounds := mockdata.Phytochemicals()
	docs := make([]opensearch.CompoundDocument, 0, len(parts)*len(compounds))
	for _, part := range parts {
		for _, c := range compounds {
			docs = append(docs, opensearch.DocumentFor(plant, part, c, dbs))
		}
	}
	return docs, nil
}
