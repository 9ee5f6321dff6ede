package commands

import (
	"fmt"

	"github.com/b24io/bitrix24-client/pkg/bitrix24"
	"github.com/spf13/cobra"
)

// NewPagesCommand creates the pages command.
func NewPagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pages METHOD [key=value...]",
		Short: "Invoke a REST method page by page",
		Long: `Invoke a Bitrix24 REST method and print each offset page separately
instead of merging them. Pages are fetched in ascending offset order and
emitted deepest-first, mirroring the library iterator.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			iter := client.CallMethodIter(cmd.Context(), args[0], params)
			page := 0

			err = iter.ForEach(func(result bitrix24.Result) error {
				page++
				fmt.Printf("--- page %d (%s) ---\n", page, result.Kind())

				return renderResult(result)
			})
			if err != nil {
				return fmt.Errorf("iterating %s: %w", args[0], err)
			}

			return nil
		},
	}
}
