// Package queryfile reads query definitions for the CLI and applies them to a
// query controller.
package queryfile

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/clause"
	"github.com/satishbabariya/querykit/query/filter"
)

// ErrNoQuery is returned by Validate when neither the file nor the flags give a base query.
var ErrNoQuery = errors.New("querykit: no base query given")

// Definition is one query definition, as stored in a YAML, JSON or TOML file:
//
//	query: select f.* from foo f
//	append: ["left join bar b on b.id = f.bar_id"]
//	where: "status = 'A' and b.kind in ('x', 'y')"
//	filter: '{"age": {"$gte": 18}}'
//	sort: ["name,desc"]
//	max_results: 10
//	page: 1
type Definition struct {
	Query          string        `mapstructure:"query"`
	Root           string        `mapstructure:"root"`
	Append         []string      `mapstructure:"append"`
	Where          string        `mapstructure:"where"`
	Filter         string        `mapstructure:"filter"`
	Sort           []string      `mapstructure:"sort"`
	OrderColumn    string        `mapstructure:"order_column"`
	OrderDirection string        `mapstructure:"order_direction"`
	GroupBy        []string      `mapstructure:"group_by"`
	MaxResults     *int          `mapstructure:"max_results"`
	FirstResult    *int          `mapstructure:"first_result"`
	Page           int           `mapstructure:"page"`
	Prefix         []interface{} `mapstructure:"prefix"`
}

// Load reads a query file from fs. The format follows the file extension.
func Load(fs afero.Fs, path string) (*Definition, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}

	var s Definition
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode query file %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the definition can produce a query.
func (s *Definition) Validate() error {
	if s.Query == "" {
		return ErrNoQuery
	}
	return nil
}

// Apply configures c from the definition. Filters from Where and Filter are added
// after any clause c already holds.
func (s *Definition) Apply(c *builder.Controller) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.SetQuery(s.Query)
	if s.Root != "" {
		if err := c.SetRoot(s.Root); err != nil {
			return err
		}
	}
	for _, fragment := range s.Append {
		c.Append(fragment)
	}

	clauses, err := filter.ParseExpression(s.Where)
	if err != nil {
		return err
	}
	for _, wc := range clauses {
		c.AddWhere(wc)
	}
	if s.Filter != "" {
		wc, err := filter.ParseJSON([]byte(s.Filter))
		if err != nil {
			return err
		}
		if wc != nil {
			c.AddWhere(wc)
		}
	}

	sort, err := filter.ParseSort(s.Sort)
	if err != nil {
		return err
	}
	if sort != nil {
		c.OrderBy(sort)
	}
	if s.OrderColumn != "" {
		c.OrderColumn(s.OrderColumn, s.OrderDirection)
	}
	if len(s.GroupBy) > 0 {
		g, err := clause.NewGroupBy(s.GroupBy...)
		if err != nil {
			return err
		}
		c.GroupBy(g)
	}

	c.SetMaxResults(s.MaxResults).SetFirstResult(s.FirstResult).SetPageNumber(s.Page)
	if len(s.Prefix) > 0 {
		c.SetPrefixParams(s.Prefix...)
	}
	return nil
}
