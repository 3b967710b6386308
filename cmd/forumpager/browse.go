package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-discussion-pager/apiclient"
	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/pagination"
	"github.com/goliatone/go-discussion-pager/pkg/di"
	"github.com/goliatone/go-discussion-pager/toolbar"
)

const browseHelp = `commands:
  n, p, f, l        next, previous, first, last page
  <number>          jump to page
  / <term>          search (empty term clears)
  s <sort>          sort: latest, top, newest, oldest
  o <id>            open a discussion
  b                 back to the list
  r                 refresh
  q                 quit`

func newBrowseCmd() *cobra.Command {
	var (
		apiURL string
		start  string
		paged  bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the discussion list page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			config := di.DefaultConfig()
			config.Settings = s
			config.StartURL = start
			config.Logger = newLogger(cmd, true)
			if cmd.Flags().Changed("paginate") {
				config.Preferences.UserCustom = true
				config.Preferences.UserPaginationOnLoading = paged
			}

			container, err := di.NewContainer(config)
			if err != nil {
				return err
			}
			client := apiclient.New(apiURL, apiclient.WithLogger(config.Logger))

			b := &browser{
				out:       cmd.OutOrStdout(),
				container: container,
				client:    client,
			}
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&start, "url", "/", "Start location, may carry ?page=N")
	cmd.Flags().BoolVar(&paged, "paginate", true, "Personal choice between numbered pages and load more (needs can_user_pref)")

	return cmd
}

// browser is the terminal list view: it owns a controller for the list
// route and rebuilds it when coming back from a discussion.
type browser struct {
	out       io.Writer
	container *di.Container
	client    *apiclient.Client
	list      *pagination.Paginator
	bar       *toolbar.Toolbar
	params    forum.Params
	viewing   *forum.Discussion
}

func (b *browser) mount(ctx context.Context) error {
	b.viewing = nil
	b.list = b.container.NewPaginator(b.client, pagination.WithViewport(b))
	b.bar = b.container.NewToolbar(b.list)
	return b.list.RefreshParams(ctx, b.params, 1)
}

// ScrollToTop implements pagination.Viewport.
func (b *browser) ScrollToTop() {
	fmt.Fprintln(b.out, strings.Repeat("─", 40))
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	if err := b.mount(ctx); err != nil {
		return err
	}
	b.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := b.dispatch(ctx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(b.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		b.render()
	}
}

func (b *browser) dispatch(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if b.viewing != nil && cmd != "b" && cmd != "q" {
		return false, fmt.Errorf("press b to go back to the list")
	}

	switch cmd {
	case "q":
		return true, nil
	case "n":
		if !b.list.Paginating() {
			return false, b.list.LoadMore(ctx)
		}
		return false, b.list.NextPage(ctx)
	case "p":
		return false, b.list.PrevPage(ctx)
	case "f":
		return false, b.list.FirstPage(ctx)
	case "l":
		return false, b.list.LastPage(ctx)
	case "r":
		return false, b.list.Refresh(ctx, b.list.Page())
	case "/":
		b.params.Q = arg
		return false, b.list.RefreshParams(ctx, b.params, 1)
	case "s":
		b.params.Sort = arg
		return false, b.list.RefreshParams(ctx, b.params, 1)
	case "o":
		return false, b.open(ctx, arg)
	case "b":
		if b.viewing == nil {
			return false, nil
		}
		b.container.Back()
		return false, b.mount(ctx)
	case "", "?", "help":
		fmt.Fprintln(b.out, browseHelp)
		return false, nil
	}

	if _, err := strconv.Atoi(cmd); err == nil {
		_, err := b.bar.KeyDown(ctx, "Enter", cmd)
		return false, err
	}
	return false, fmt.Errorf("unknown command %q", cmd)
}

func (b *browser) open(ctx context.Context, id string) error {
	d, ok := b.client.GetByID(id)
	if !ok {
		var err error
		if d, err = b.client.Discussion(ctx, id); err != nil {
			return err
		}
	}
	b.container.OpenDiscussion("/d/" + d.Slug)
	b.viewing = d
	return nil
}

// items returns what the list shows: the current page, or everything
// loaded so far in load-more mode.
func (b *browser) items() []*forum.Discussion {
	if !b.list.Paginating() {
		return b.list.Base().Items()
	}
	if page := b.list.CurrentPage(); page != nil {
		return page.Items
	}
	return nil
}

func (b *browser) render() {
	if d := b.viewing; d != nil {
		fmt.Fprintf(b.out, "%s\n%d comments, last post %s\n", d.Title, d.CommentCount, d.LastPostedAt.Format("2006-01-02 15:04"))
		return
	}

	if b.bar.ShowAbove() {
		b.bar.Render(b.out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(b.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Comments", "Last post"})
	for _, d := range b.items() {
		title := d.Title
		if d.IsSticky {
			title = "* " + title
		}
		t.AppendRow(table.Row{d.ID, title, d.CommentCount, d.LastPostedAt.Format("2006-01-02 15:04")})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d results", b.list.Total()), "", b.list.Status()})
	t.Render()

	if b.bar.ShowUnder() {
		b.bar.Render(b.out)
	}
	fmt.Fprintf(b.out, "location: %s\n", b.container.History().Location())
}
