package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCallCommand creates the call command.
func NewCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call METHOD [key=value...]",
		Short: "Invoke a REST method and merge all result pages",
		Long: `Invoke a Bitrix24 REST method, draining every offset page of a paginated
result into a single merged output.

Parameters are key=value pairs. Dots nest, so

  b24 call crm.contact.list filter.>ID=100 order.ID=asc select=ID,NAME

sends filter[>ID]=100, order[ID]=asc and select[0]=ID, select[1]=NAME.`,
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

			result, err := client.CallMethod(cmd.Context(), args[0], params)
			if err != nil {
				return fmt.Errorf("calling %s: %w", args[0], err)
			}

			return renderResult(result)
		},
	}
}
