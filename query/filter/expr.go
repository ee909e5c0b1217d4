package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/querykit/query/clause"
)

// exprLexer tokenizes condition expressions such as
// "status = 'A' and created >= 20 or name lk 'jo'".
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `\b(?i:and|or|not|in|is|null|like|lk|bw|ew|true|false)\b`},

	{Name: "String", Pattern: `'(?:[^']|'')*'|"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?`},

	{Name: "Operator", Pattern: `<>|!=|>=|<=|=|>|<`},
	{Name: "Punct", Pattern: `[(),]`},

	{Name: "Whitespace", Pattern: `\s+`},
})

// Expression is a disjunction of conjunctions; AND binds tighter than OR.
type Expression struct {
	Or []*Conjunction `@@ ( "or" @@ )*`
}

type Conjunction struct {
	And []*Condition `@@ ( "and" @@ )*`
}

type Condition struct {
	Property string     `@Ident`
	Null     *NullCheck `(  @@`
	In       *InList    ` | @@`
	Compare  *Compare   ` | @@ )`
}

type NullCheck struct {
	Is  bool `@"is"`
	Not bool `@"not"? "null"`
}

type InList struct {
	Not    bool     `@"not"? "in"`
	Values []*Value `"(" @@ ( "," @@ )* ")"`
}

type Compare struct {
	Operator string `( @Operator | @( "like" | "lk" | "bw" | "ew" ) )`
	Value    *Value `@@`
}

type Value struct {
	String  *string `  @String`
	Number  *string `| @Number`
	Boolean *string `| @( "true" | "false" )`
}

var exprParser = participle.MustBuild[Expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

var compareOperators = map[string]clause.Operator{
	"=":    clause.Equal,
	"!=":   clause.NotEqual,
	"<>":   clause.NotEqual,
	">":    clause.GT,
	">=":   clause.GTE,
	"<":    clause.LT,
	"<=":   clause.LTE,
	"like": clause.Like,
	"lk":   clause.Like,
	"bw":   clause.BeginWith,
	"ew":   clause.EndWith,
}

// MaxExpressionClauses bounds the clauses an expression may expand to.
const MaxExpressionClauses = 64

// ParseExpression compiles a condition expression into AND-joined where
// clauses, so the result can be combined with other clauses safely.
//
// A single conjunction yields one AND clause. A disjunction is rewritten to
// conjunctive form, one grouped OR clause per combination of its operands:
//
//	a = 1 and b = 2 or c = 3  =>  ( a = 1 OR c = 3 ) AND ( b = 2 OR c = 3 )
//
// A string value holding commas expands to one alternative per item, as for
// any other where value.
func ParseExpression(input string) ([]*clause.WhereClause, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	expr, err := exprParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	conjunctions := make([][]clause.QueryParam, 0, len(expr.Or))
	size := 1
	for _, conj := range expr.Or {
		params := make([]clause.QueryParam, 0, len(conj.And))
		for _, cond := range conj.And {
			p, err := cond.param()
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		size *= len(params)
		if size > MaxExpressionClauses {
			return nil, fmt.Errorf("%w: expands to more than %d clauses", ErrInvalidExpression, MaxExpressionClauses)
		}
		conjunctions = append(conjunctions, params)
	}

	if len(conjunctions) == 1 {
		return []*clause.WhereClause{clause.NewWhere(conjunctions[0]...)}, nil
	}

	out := make([]*clause.WhereClause, 0, size)
	for _, pick := range product(conjunctions) {
		out = append(out, clause.NewWhere(pick...).Any().Grouped())
	}
	return out, nil
}

// product returns every selection of one param per conjunction, first
// conjunction varying slowest.
func product(conjunctions [][]clause.QueryParam) [][]clause.QueryParam {
	out := [][]clause.QueryParam{nil}
	for _, params := range conjunctions {
		next := make([][]clause.QueryParam, 0, len(out)*len(params))
		for _, prefix := range out {
			for _, p := range params {
				pick := make([]clause.QueryParam, len(prefix), len(prefix)+1)
				copy(pick, prefix)
				next = append(next, append(pick, p))
			}
		}
		out = next
	}
	return out
}

func (c *Condition) param() (clause.QueryParam, error) {
	switch {
	case c.Null != nil:
		if c.Null.Not {
			return clause.WhereNotNull(c.Property), nil
		}
		return clause.WhereNull(c.Property), nil

	case c.In != nil:
		values := make([]interface{}, 0, len(c.In.Values))
		for _, v := range c.In.Values {
			value, err := v.value()
			if err != nil {
				return clause.QueryParam{}, err
			}
			values = append(values, value)
		}
		if c.In.Not {
			return clause.NotInValues(c.Property, values), nil
		}
		return clause.InValues(c.Property, values), nil

	case c.Compare != nil:
		op, ok := compareOperators[strings.ToLower(c.Compare.Operator)]
		if !ok {
			return clause.QueryParam{}, fmt.Errorf("%w: %q", ErrUnknownFilterOperator, c.Compare.Operator)
		}
		value, err := c.Compare.Value.value()
		if err != nil {
			return clause.QueryParam{}, err
		}
		return clause.Param(c.Property, op, value), nil
	}
	return clause.QueryParam{}, fmt.Errorf("%w: incomplete condition on %s", ErrInvalidExpression, c.Property)
}

func (v *Value) value() (interface{}, error) {
	switch {
	case v.String != nil:
		return unquote(*v.String)
	case v.Number != nil:
		if i, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
		}
		return f, nil
	case v.Boolean != nil:
		return strings.EqualFold(*v.Boolean, "true"), nil
	}
	return nil, fmt.Errorf("%w: missing value", ErrInvalidExpression)
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	}
	out, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return out, nil
}
