package cli

import (
	"fmt"

	"soufra_admin/internal/models"
	"soufra_admin/internal/orderflow"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect order status flows.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "next <order_type> <status>",
		Short: "Print the status that follows status for an order type.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderType := models.OrderType(args[0])
			if !orderType.IsValid() {
				return models.NewValidationError("order_type", "unknown order type %q", args[0])
			}
			next, ok := orderflow.Advance(orderType, models.OrderStatus(args[1]))
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "none")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "flow <order_type>",
		Short: "Print every status of an order type's flow.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, status := range orderflow.Flow(models.OrderType(args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), status)
			}
			return nil
		},
	})
	return cmd
}
