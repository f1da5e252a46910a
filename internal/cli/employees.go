package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
	"github.com/matzehuels/trombinoscope/pkg/query"
	"github.com/matzehuels/trombinoscope/pkg/source"
)

// =============================================================================
// seed
// =============================================================================

// seedCommand creates the seed command.
func (c *CLI) seedCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "seed [file|url]",
		Short: "Fill an empty directory from an employee list",
		Long: `Fill an empty directory from a JSON or YAML employee list.

The location defaults to [source] url in config.toml. A directory that
already holds employees is left untouched; use 'clear' or 'import --replace'
to start over. Remote lists are cached like rendered charts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			}
			return c.runSeed(cmd.Context(), location, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always fetch remote lists")

	return cmd
}

func (c *CLI) runSeed(ctx context.Context, location string, noCache bool) error {
	if location == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		location = cfg.Source.URL
	}
	if location == "" {
		return terrors.New(terrors.ErrCodeInvalidConfig, "no employee source: pass a file or URL, or set [source] url in config.toml")
	}

	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	client := source.NewClient(source.WithCache(cc, c.cacheTTL()), source.WithKeyer(c.keyer()))

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", location))
	spinner.Start()
	n, err := svc.Seed(ctx, client.Loader(location))
	if err != nil {
		spinner.StopWithError("Seeding failed")
		return fmt.Errorf("seed from %s: %w", location, err)
	}
	spinner.Stop()

	if n == 0 {
		printInfo("Directory already has employees, nothing seeded")
		printNextStep("Replace the directory", "trombinoscope import --replace "+location)
		return nil
	}
	prog.done(fmt.Sprintf("Seeded %d employees", n))
	printSuccess("Seeded %s employees from %s", StyleNumber.Render(strconv.Itoa(n)), location)
	return nil
}

// =============================================================================
// list
// =============================================================================

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		filter string
		format string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List employees",
		Long: `List employees as a table.

--filter takes a CEL expression over the variable e, for example:

  trombinoscope list --filter 'e.age >= 40'
  trombinoscope list --filter 'e.title.contains("Directeur")'
  trombinoscope list --filter 'e.parent_id == null'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), filter, format)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "CEL filter expression")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json, yaml")

	return cmd
}

func (c *CLI) runList(ctx context.Context, expr, format string) error {
	var f *query.Filter
	if strings.TrimSpace(expr) != "" {
		var err error
		if f, err = query.Compile(expr); err != nil {
			return err
		}
	}

	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	employees, err := svc.List(ctx)
	if err != nil {
		return err
	}
	now := c.now()
	if employees, err = f.At(now).Apply(employees); err != nil {
		return err
	}

	if format != "table" {
		return writeEmployees(c.out(), employees, format)
	}
	if len(employees) == 0 {
		printInfo("No employees")
		if f == nil {
			printNextStep("Load the initial list", "trombinoscope seed")
		}
		return nil
	}
	fmt.Fprintln(c.out(), employeeTable(employees, now))
	return nil
}

// =============================================================================
// add
// =============================================================================

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var (
		e       directory.Employee
		manager int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Example: `  trombinoscope add --first Marie --last Curie --title "Directrice R&D" \
      --birth 1967-11-07 --manager 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("manager") {
				e.ParentID = directory.IntPtr(manager)
			}
			photo, err := photoValue(e.Photo)
			if err != nil {
				return err
			}
			e.Photo = photo
			return c.runAdd(cmd.Context(), e)
		},
	}

	cmd.Flags().IntVar(&e.ID, "id", 0, "employee id (allocated when omitted)")
	cmd.Flags().StringVar(&e.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&e.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&e.Title, "title", "", "job title")
	cmd.Flags().StringVar(&e.BirthDate, "birth", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&e.Photo, "photo", "", "image file to embed, site path or URL (default "+directory.DefaultPhoto+")")
	cmd.Flags().IntVar(&manager, "manager", 0, "manager id (omit for the top of the chart)")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, e directory.Employee) error {
	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	created, err := svc.Create(ctx, e)
	if err != nil {
		return err
	}
	printSuccess("Added %s %s", StyleValue.Render(created.Name()), StyleDim.Render("#"+strconv.Itoa(created.ID)))
	if created.ParentID != nil {
		printDetail("Reports to #%d", *created.ParentID)
	}
	return nil
}

// =============================================================================
// remove
// =============================================================================

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm"},
		Short:   "Remove an employee",
		Long: `Remove an employee by id, or pick one interactively when no id is given.

Reports of a removed employee stay in the directory but drop out of the
chart until they get a new manager.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.runRemoveInteractive(cmd.Context())
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return terrors.New(terrors.ErrCodeInvalidInput, "invalid employee id %q", args[0])
			}
			return c.runRemove(cmd.Context(), id)
		},
	}
}

func (c *CLI) runRemove(ctx context.Context, id int) error {
	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	e, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.remove(ctx, svc, e)
}

func (c *CLI) runRemoveInteractive(ctx context.Context) error {
	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	employees, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		printInfo("No employees")
		return nil
	}

	final, err := tea.NewProgram(NewEmployeeListModel(employees, c.now()), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("employee picker: %w", err)
	}
	m, ok := final.(EmployeeListModel)
	if !ok || m.Selected == nil {
		printInfo("Nothing removed")
		return nil
	}
	return c.remove(ctx, svc, *m.Selected)
}

func (c *CLI) remove(ctx context.Context, svc *directory.Service, e directory.Employee) error {
	employees, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		return err
	}
	printSuccess("Removed %s %s", StyleValue.Render(e.Name()), StyleDim.Render("#"+strconv.Itoa(e.ID)))
	if n := countReports(employees, e.ID); n > 0 {
		printWarning("%d direct report(s) no longer have a manager and will not appear in the chart", n)
	}
	return nil
}

func countReports(employees []directory.Employee, id int) int {
	n := 0
	for _, e := range employees {
		if e.ParentID != nil && *e.ParentID == id {
			n++
		}
	}
	return n
}

// =============================================================================
// clear
// =============================================================================

// clearCommand creates the clear command.
func (c *CLI) clearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return terrors.New(terrors.ErrCodeInvalidInput, "refusing to clear the directory without --yes")
			}
			svc, closeSvc, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSvc()

			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Directory cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")

	return cmd
}

// =============================================================================
// tree
// =============================================================================

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the hierarchy as an indented tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.LastRootWins, "last-root-wins", false, "keep the last of several top-level employees instead of failing")
	cmd.Flags().BoolVar(&opts.StrictOrphans, "strict", false, "fail when an employee's manager does not exist")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, opts pipeline.Options) error {
	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	employees, err := svc.List(ctx)
	if err != nil {
		return err
	}

	opts.Logger = c.Logger
	opts.Now = c.now()
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	t, err := runner.BuildWithHooks(ctx, employees, opts)
	if err != nil {
		return err
	}

	fmt.Fprint(c.out(), printTree(t, opts.Now).String())
	if n := t.Dropped(); n > 0 {
		printWarning("%d employee(s) left out: manager missing or unreachable", n)
	}
	return nil
}

// printTree converts t into a treeprint tree labelled "Name (Title)".
func printTree(t *hierarchy.Tree, now time.Time) treeprint.Tree {
	out := treeprint.New()
	out.SetValue(treeLabel(t.Root(), now))

	var add func(branch treeprint.Tree, idx int)
	add = func(branch treeprint.Tree, idx int) {
		for _, child := range t.Nodes[idx].Children {
			n := &t.Nodes[child]
			if n.IsLeaf() {
				branch.AddNode(treeLabel(n, now))
				continue
			}
			add(branch.AddBranch(treeLabel(n, now)), child)
		}
	}
	add(out, 0)
	return out
}

func treeLabel(n *hierarchy.Node, now time.Time) string {
	e, ok := directory.FromRecord(n.Record)
	if !ok {
		return strconv.Itoa(n.Record.ID)
	}
	label := fmt.Sprintf("%s (%s)", e.Name(), e.Title)
	if age := e.Age(now); age >= 0 {
		label += fmt.Sprintf(", %d ans", age)
	}
	return label
}
