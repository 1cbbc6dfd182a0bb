package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tamirms/combspan"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "combspan",
		Short:        "Enumerate combinatorial families lazily and in parallel",
		Long:         `combspan counts, lists, benchmarks and exports permutations, combinations, Cartesian products, power sets, derangements and partial permutations without materializing them.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("combspan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.AddCommand(c.countCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.verifyCommand())
	return root
}

// hooks returns sequence hooks that log to the context logger.
func hooks(ctx context.Context) combspan.Option {
	return combspan.WithHooks(logHooks{logger: loggerFromContext(ctx)})
}

func (c *CLI) countCommand() *cobra.Command {
	var flags jobFlags
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of elements in a family",
		Example: `  combspan count -f permutation -n 25
  combspan count -f combination -n 52 -k 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			seq, err := j.sequence(hooks(cmd.Context()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", seq.Family(), seq.Width(), seq.Total())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) listCommand() *cobra.Command {
	var (
		flags jobFlags
		skip  string
		limit int64
		at    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print elements of a family",
		Example: `  combspan list -f combination -n 5 -k 3
  combspan list -f permutation -n 30 --at 1000000000000000
  combspan list -f powerset -n 10 --phrase "round 3" --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			seq, err := j.sequence(hooks(cmd.Context()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if at != "" {
				idx, err := parseIndex("at", at)
				if err != nil {
					return err
				}
				e, err := seq.At(idx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, e)
				return nil
			}

			if skip != "" {
				n, err := parseIndex("skip", skip)
				if err != nil {
					return err
				}
				if err := seq.SkipBig(n); err != nil {
					return err
				}
			}
			var printed int64
			for limit < 0 || printed < limit {
				e, ok := seq.Next()
				if !ok {
					break
				}
				fmt.Fprintln(out, e)
				printed++
			}
			loggerFromContext(cmd.Context()).Debug("listed", "elements", printed, "remaining", seq.BigCount())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&skip, "skip", "", "skip this many elements first (arbitrary precision)")
	cmd.Flags().Int64Var(&limit, "limit", 20, "print at most this many elements (-1 for all)")
	cmd.Flags().StringVar(&at, "at", "", "print only the element at this index (natural order)")
	return cmd
}

func (c *CLI) benchCommand() *cobra.Command {
	var (
		flags jobFlags
		check bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drain a family in parallel and report throughput",
		Long: `bench splits the family into work items, drains them on a pool of workers
and prints the digest of the whole pass. With --check it also drains the
family sequentially and fails if the two digests differ.`,
		Example: `  combspan bench -f permutation -n 11 -w 8
  combspan bench --job job.toml --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			j, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			seq, err := j.sequence(hooks(ctx))
			if err != nil {
				return err
			}
			logger.Info("benchmarking", "sequence", seq, "workers", j.Workers, "grain", j.Grain)

			prog := newProgress(logger)
			d, err := combspan.ParallelDigest(ctx, seq, j.runOptions()...)
			if err != nil {
				return err
			}
			rate := float64(d.Count) / prog.elapsed().Seconds()
			prog.done("parallel pass complete", "elements", d.Count, "per_second", fmt.Sprintf("%.0f", rate))
			fmt.Fprintln(cmd.OutOrStdout(), d)

			if !check {
				return nil
			}
			again, err := j.sequence()
			if err != nil {
				return err
			}
			prog = newProgress(logger)
			want := again.Digest()
			prog.done("sequential pass complete", "elements", want.Count)
			if want != d {
				return fmt.Errorf("digest mismatch: parallel %v, sequential %v", d, want)
			}
			logger.Info("digests match")
			return nil
		},
	}
	flags.register(cmd)
	flags.registerRun(cmd)
	cmd.Flags().BoolVar(&check, "check", false, "also drain sequentially and compare digests")
	return cmd
}

func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags jobFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a family to a table file",
		Example: `  combspan export -f combination -n 20 -k 5 -o comb.tbl
  combspan export --job job.toml -o shuffled.tbl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			j, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			seq, err := j.sequence(hooks(ctx))
			if err != nil {
				return err
			}
			records := seq.BigCount()
			prog := newProgress(logger)
			if err := combspan.WriteTable(ctx, out, seq, j.runOptions()...); err != nil {
				return err
			}
			prog.done("table written", "path", out, "records", records)
			return nil
		},
	}
	flags.register(cmd)
	flags.registerRun(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output table file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (c *CLI) verifyCommand() *cobra.Command {
	var digest bool
	cmd := &cobra.Command{
		Use:   "verify <table>",
		Short: "Check a table file's checksums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			tbl, err := combspan.OpenTable(args[0])
			if err != nil {
				return err
			}
			defer tbl.Close()

			prog := newProgress(logger)
			if err := tbl.Verify(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			prog.done("checksums ok", "path", args[0], "family", tbl.Family(), "records", tbl.Len())

			out := cmd.OutOrStdout()
			seed, shuffled := tbl.Shuffled()
			fmt.Fprintf(out, "%s\t%d records\torigin %d", tbl.Family(), tbl.Len(), tbl.Origin())
			if shuffled {
				fmt.Fprintf(out, "\tseed %d", seed)
			}
			fmt.Fprintln(out)
			if digest {
				d, err := tbl.Digest()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&digest, "digest", false, "also print the digest of the records")
	return cmd
}

// parseIndex parses a non-negative decimal integer of any size.
func parseIndex(flag, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("--%s: %q is not a non-negative integer", flag, s)
	}
	return n, nil
}
