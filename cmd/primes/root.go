package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/primecache"
)

type rootFlags struct {
	bound       int
	minStart    int
	workers     int
	memoryLimit int64
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "primes",
		Short: "Query a cache of the primes below a bound",
		Long: "primes sieves every prime below --bound once and answers range queries " +
			"against the cached list.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.IntVar(&flags.bound, "bound", primecache.DefaultBound, "exclusive upper limit of the cache")
	pf.IntVar(&flags.minStart, "min-start", int(primecache.MinStartZero), "minimum range start (0 or 2)")
	pf.IntVar(&flags.workers, "workers", 1, "sieve workers (<= 0: one per physical core)")
	pf.Int64Var(&flags.memoryLimit, "memory-limit", 0, "maximum bytes the build may reserve (0: unlimited)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newUpToCmd(flags),
		newRangeCmd(flags),
		newContainsCmd(flags),
		newStatsCmd(flags),
	)
	return cmd
}

func (f *rootFlags) open() (*primecache.Cache, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}

	return primecache.New(
		primecache.WithBound(f.bound),
		primecache.WithMinStart(primecache.MinStart(f.minStart)),
		primecache.WithWorkers(f.workers),
		primecache.WithMemoryLimit(f.memoryLimit),
		primecache.WithLogLevel(level),
	)
}

func newUpToCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upto <value>",
		Short: "List the primes up to and including value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseInt("value", args[0])
			if err != nil {
				return err
			}
			c, err := flags.open()
			if err != nil {
				return err
			}
			primes, err := c.UpTo(value)
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), primes)
		},
	}
}

func newRangeCmd(flags *rootFlags) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "range <start> <end>",
		Short: "List the primes in the inclusive range [start, end]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInt("start", args[0])
			if err != nil {
				return err
			}
			end, err := parseInt("end", args[1])
			if err != nil {
				return err
			}
			c, err := flags.open()
			if err != nil {
				return err
			}
			if count {
				n, err := c.Count(start, end)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), humanize.Comma(int64(n)))
				return err
			}
			primes, err := c.Range(start, end)
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), primes)
		},
	}
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of primes")
	return cmd
}

func newContainsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contains <n>",
		Short: "Report whether n is prime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("n", args[0])
			if err != nil {
				return err
			}
			c, err := flags.open()
			if err != nil {
				return err
			}
			ok, err := c.Contains(n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Build the cache and print build statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.open()
			if err != nil {
				return err
			}
			stats, err := c.Stats()
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), stats, c.MemoryUsage(), c.MemoryLimit())
		},
	}
}

func writeList(w io.Writer, primes []int) error {
	parts := make([]string, len(primes))
	for i, p := range primes {
		parts[i] = strconv.Itoa(p)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, ","))
	return err
}

func writeStats(w io.Writer, stats primecache.BuildStats, retained, limit int64) error {
	budget := "unlimited"
	if limit > 0 {
		budget = humanize.IBytes(uint64(limit))
	}
	_, err := fmt.Fprintf(w,
		"bound:      %s\nprimes:     %s\nworkers:    %d\nduration:   %s\nthroughput: %s values/s\nmarks:      %s (released)\nretained:   %s\nlimit:      %s\n",
		humanize.Comma(int64(stats.Bound)),
		humanize.Comma(int64(stats.Primes)),
		stats.Workers,
		stats.Duration,
		humanize.Comma(int64(stats.Throughput())),
		humanize.IBytes(uint64(stats.MarksBytes)),
		humanize.IBytes(uint64(retained)),
		budget,
	)
	return err
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}
