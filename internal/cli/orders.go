package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/tomatostore/grocer/internal/client"
)

// OrdersOptions holds flags for order browsing.
type OrdersOptions struct {
	*RootOptions
	Search string
	Sort   string
	Desc   bool
}

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "orders",
		Short:        "Browse and execute orders",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOrders(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by order id, customer id or item name")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort key (time|price|customer)")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")

	cmd.AddCommand(newOrderGetCommand(rootOpts))
	cmd.AddCommand(newOrderExecuteCommand(rootOpts))
	cmd.AddCommand(newOrderSummaryCommand(rootOpts))

	return cmd
}

func listOrders(ctx context.Context, opts *OrdersOptions) error {
	source := client.NewOrderSource(opts.Session(), opts.Strategy())
	ctrl := client.NewController[client.Order](source)

	state := client.NewQueryState().
		WithSearch(opts.Search).
		WithSort(client.SortKey(opts.Sort))
	if opts.Desc {
		state = state.WithOrder(client.Descending)
	}

	ctrl.Load(ctx, state)
	if err := ctrl.Err(); err != nil {
		return err
	}

	// order search (id, customer, line names) is always client-side;
	// the server only understands sort and time-window parameters
	orders := client.ApplyOrders(ctrl.Items(), state)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tTIME\tSTATUS\tTOTAL\tITEMS")
	for _, o := range orders {
		status := "pending"
		if o.Executed {
			status = "executed"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\n",
			o.ID, o.CustomerID, o.OrderTime.Format("2006-01-02 15:04"),
			status, client.FormatCents(o.TotalPrice), len(o.Items))
	}
	w.Flush()
	fmt.Printf("\n%d orders\n", len(orders))
	return nil
}

func newOrderGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get <id>",
		Short:        "Show one order with its line items",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cast.ToInt64(args[0])
			if id == 0 {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			source := client.NewOrderSource(rootOpts.Session(), rootOpts.Strategy())
			order, err := source.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			status := "pending"
			if order.Executed {
				status = "executed"
			}
			fmt.Printf("Order:    %d\n", order.ID)
			fmt.Printf("Customer: %d\n", order.CustomerID)
			fmt.Printf("Time:     %s\n", order.OrderTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("Status:   %s\n", status)
			fmt.Printf("Total:    %s\n", client.FormatCents(order.TotalPrice))

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nNAME\tQTY\tUNIT\tLINE")
			for _, line := range order.Items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					line.Name, line.Quantity,
					client.FormatCents(line.UnitPrice),
					client.FormatCents(line.UnitPrice*int64(line.Quantity)))
			}
			return w.Flush()
		},
	}
}

func newOrderExecuteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "execute <id>",
		Short:        "Execute a pending order (requires token)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cast.ToInt64(args[0])
			if id == 0 {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			source := client.NewOrderSource(rootOpts.Session(), rootOpts.Strategy())
			executor := client.NewOrderExecutor(source, nil)
			if err := executor.Execute(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("order %d executed\n", id)
			return nil
		},
	}
}

func newOrderSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "summary",
		Short:        "Show revenue aggregates over executed orders (requires token)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := client.NewOrderSource(rootOpts.Session(), rootOpts.Strategy())
			sum, err := source.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Orders:   %d (%d pending, %d executed)\n", sum.Count, sum.Pending, sum.Executed)
			fmt.Printf("Revenue:  %s\n", client.FormatCents(sum.Revenue))
			fmt.Printf("Mean:     %s\n", client.FormatCents(sum.Mean))
			fmt.Printf("Median:   %s\n", client.FormatCents(sum.Median))
			return nil
		},
	}
}
