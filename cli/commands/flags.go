package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querykit/cli/internal/config"
	"github.com/satishbabariya/querykit/cli/internal/queryfile"
)

// queryFlags override the fields of a query file.
type queryFlags struct {
	file   string
	query  string
	where  string
	filter string
	sort   []string
	group  []string
	max    int
	first  int
	page   int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "query file (yaml, json or toml)")
	flags.StringVarP(&f.query, "query", "q", "", "base query, e.g. \"select f.* from foo f\"")
	flags.StringVarP(&f.where, "where", "w", "", "filter expression, e.g. \"status = 'A' and age >= 18\"")
	flags.StringVar(&f.filter, "filter", "", "JSON filter document, e.g. '{\"age\": {\"$gte\": 18}}'")
	flags.StringArrayVarP(&f.sort, "sort", "s", nil, "sort order as property[,asc|desc]; repeatable")
	flags.StringSliceVar(&f.group, "group", nil, "group by properties")
	flags.IntVarP(&f.max, "max", "m", 0, "page size")
	flags.IntVar(&f.first, "first", 0, "row offset; overrides --page")
	flags.IntVarP(&f.page, "page", "p", 0, "zero-based page number")
}

// definition loads the query file, applies changed flags on top and falls back to
// the configured page size.
func (f *queryFlags) definition(cmd *cobra.Command, cfg *config.Config) (*queryfile.Definition, error) {
	s := &queryfile.Definition{}
	if f.file != "" {
		loaded, err := queryfile.Load(config.AppFs, f.file)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("query") {
		s.Query = f.query
	}
	if flags.Changed("where") {
		s.Where = f.where
	}
	if flags.Changed("filter") {
		s.Filter = f.filter
	}
	if flags.Changed("sort") {
		s.Sort = f.sort
	}
	if flags.Changed("group") {
		s.GroupBy = f.group
	}
	if flags.Changed("max") {
		n := f.max
		s.MaxResults = &n
	}
	if flags.Changed("first") {
		first := f.first
		s.FirstResult = &first
	}
	if flags.Changed("page") {
		s.Page = f.page
	}
	if s.MaxResults == nil && cfg.MaxResults > 0 {
		n := cfg.MaxResults
		s.MaxResults = &n
	}
	return s, s.Validate()
}
