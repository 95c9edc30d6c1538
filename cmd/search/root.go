package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/biz"
	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/data"
	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	proxy             string
	timeout           time.Duration
	task              string
	sortBy            string
	language          string
	includeSpaces     bool
	includeDatasets   bool
	includeRestricted bool
	asJSON            bool
	verbose           bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search Hugging Face models through a running proxy",
		Long: "Runs one search against the /api/huggingface-models proxy, applies the content filter " +
			"and ranking, and prints the result.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.proxy, "proxy", envOr("MODEL_SEARCH_PROXY", "http://localhost:5000"), "proxy base URL")
	f.DurationVar(&opts.timeout, "timeout", biz.DefaultFetchTimeout, "request timeout")
	f.StringVar(&opts.task, "task", "", "pipeline task (default text-generation)")
	f.StringVar(&opts.sortBy, "sort-by", "", "downloads, likes or lastModified (default downloads)")
	f.StringVar(&opts.language, "language", "", "language filter")
	f.BoolVar(&opts.includeSpaces, "include-spaces", false, "include spaces")
	f.BoolVar(&opts.includeDatasets, "include-datasets", false, "include datasets")
	f.BoolVar(&opts.includeRestricted, "include-restricted", false, "keep gated, private, NSFW and non-commercial models")
	f.BoolVar(&opts.asJSON, "json", false, "print the raw response as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *searchOptions, args []string) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	fetcher := data.NewProxyFetcher(opts.proxy, opts.timeout, log)
	uc, err := biz.NewSearchUseCase(fetcher, biz.NewMemoryCache(biz.CacheConfig{}), biz.SearchConfig{FetchTimeout: opts.timeout}, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout+time.Second)
	defer cancel()

	resp := uc.Search(ctx, strings.Join(args, " "), partialFromFlags(cmd, opts))

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else if err := printTable(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	if resp.Failed() {
		return errors.New(resp.Error)
	}
	return nil
}

// partialFromFlags sets only the filters the user passed
func partialFromFlags(cmd *cobra.Command, opts *searchOptions) types.PartialFilters {
	var partial types.PartialFilters
	f := cmd.Flags()
	if f.Changed("task") {
		partial.Task = &opts.task
	}
	if f.Changed("sort-by") {
		key := types.SortKey(opts.sortBy)
		partial.SortBy = &key
	}
	if f.Changed("language") {
		partial.Language = &opts.language
	}
	if f.Changed("include-spaces") {
		partial.IncludeSpaces = &opts.includeSpaces
	}
	if f.Changed("include-datasets") {
		partial.IncludeDatasets = &opts.includeDatasets
	}
	if f.Changed("include-restricted") {
		partial.IncludeRestricted = &opts.includeRestricted
	}
	return partial
}

func printTable(out io.Writer, resp types.APIResponse) error {
	if resp.Failed() {
		return nil
	}
	if len(resp.Models) == 0 {
		fmt.Fprintln(out, "No models found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tDOWNLOADS\tLIKES\tUPDATED")
	for _, m := range resp.Models {
		task := m.PipelineTag
		if task == "" {
			task = "-"
		}
		updated := "-"
		if ms := biz.ParseTimestamp(m.LastModified); ms > 0 {
			updated = time.UnixMilli(ms).UTC().Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%s\n", m.ID, task, m.Downloads, m.Likes, updated)
	}
	return w.Flush()
}

func newLogger(verbose bool) (*logger.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Format = "console"
	cfg.Output = "stderr"
	cfg.Level = "warn"
	if verbose {
		cfg.Level = "debug"
	}
	return logger.New(cfg)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
