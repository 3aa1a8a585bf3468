package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/tomatostore/grocer/internal/client"
)

// ItemsOptions holds flags for catalog browsing.
type ItemsOptions struct {
	*RootOptions
	Search string
	Sort   string
	Desc   bool
	Page   int
}

// NewItemsCommand creates the items command group.
func NewItemsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse the catalog",
		Long: `List catalog items, 50 per page. Search matches item names
case-insensitively; sorting is stable, so equal keys keep their order.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listItems(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter items by name substring")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort key (name|price|quantity)")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number")

	cmd.AddCommand(newItemGetCommand(rootOpts))
	cmd.AddCommand(newItemDeleteCommand(rootOpts))

	return cmd
}

func (o *ItemsOptions) queryState() client.QueryState {
	state := client.NewQueryState().
		WithSearch(o.Search).
		WithSort(client.SortKey(o.Sort)).
		WithPage(o.Page)
	if o.Desc {
		state = state.WithOrder(client.Descending)
	}
	return state
}

func listItems(ctx context.Context, opts *ItemsOptions) error {
	source := client.NewItemSource(opts.Session(), opts.Strategy())
	ctrl := client.NewController[client.Item](source)

	state := opts.queryState()
	ctrl.Load(ctx, state)
	if err := ctrl.Err(); err != nil {
		return err
	}

	var page client.Page[client.Item]
	if opts.Strategy() == client.StrategyServer {
		// server already filtered and sorted, only page locally
		page = client.Paginate(ctrl.Items(), state.Page, client.DefaultPageSize)
	} else {
		page = client.ApplyItems(ctrl.Items(), state, client.DefaultPageSize)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSALE\tDISCOUNT")
	for _, item := range page.Entities {
		sale := ""
		if item.OnSale {
			sale = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			item.ID, item.Name, client.FormatCents(item.Price),
			item.Quantity, sale, item.DiscountCode)
	}
	w.Flush()

	fmt.Printf("\n%d items, page %d of %d\n", page.TotalCount, page.Number, page.TotalPages)
	fmt.Println(renderPageRail(page.Number, page.TotalPages))
	return nil
}

// renderPageRail renders the page window: first, last, two around the
// current page, ellipsis for the gaps.
func renderPageRail(current, total int) string {
	var parts []string
	for _, ref := range client.PageWindow(current, total) {
		switch {
		case ref.Ellipsis:
			parts = append(parts, "...")
		case ref.Current:
			parts = append(parts, fmt.Sprintf("[%d]", ref.Number))
		default:
			parts = append(parts, cast.ToString(ref.Number))
		}
	}
	return strings.Join(parts, " ")
}

func newItemGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get <id>",
		Short:        "Show one catalog item",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cast.ToInt64(args[0])
			if id == 0 {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			source := client.NewItemSource(rootOpts.Session(), rootOpts.Strategy())
			item, err := source.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("ID:          %d\n", item.ID)
			fmt.Printf("Name:        %s\n", item.Name)
			fmt.Printf("Description: %s\n", item.Description)
			fmt.Printf("Price:       %s\n", client.FormatCents(item.Price))
			fmt.Printf("Quantity:    %d\n", item.Quantity)
			fmt.Printf("On sale:     %t\n", item.OnSale)
			if item.DiscountCode != "" {
				fmt.Printf("Discount:    %s\n", item.DiscountCode)
			}
			return nil
		},
	}
}

func newItemDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete a catalog item (requires token)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cast.ToInt64(args[0])
			if id == 0 {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			source := client.NewItemSource(rootOpts.Session(), rootOpts.Strategy())
			if err := source.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("item %d deleted\n", id)
			return nil
		},
	}
}
