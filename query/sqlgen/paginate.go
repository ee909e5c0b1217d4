package sqlgen

import (
	"strconv"
)

// Window is the requested page. Nil bounds are unset.
type Window struct {
	First *int
	Max   *int
}

func (w Window) first() int {
	if w.First == nil || *w.First < 0 {
		return 0
	}
	return *w.First
}

// Paginate applies the dialect's pagination to sql. One row beyond Max is
// always requested so callers can tell whether a next page exists.
func Paginate(d Dialect, sql string, w Window) string {
	switch d {
	case Oracle:
		return paginateOracle(sql, w)
	case MySQL:
		return paginateMySQL(sql, w)
	default:
		return paginateGeneric(sql, w)
	}
}

// paginateOracle numbers rows with rownum. rn is 1-based; with an offset the
// upper bound moves with it so the window still holds Max+1 rows.
func paginateOracle(sql string, w Window) string {
	first := w.first()
	out := "SELECT * FROM (SELECT a.*, rownum rn FROM ( " + sql + " ) a"
	if w.Max != nil {
		upper := *w.Max + 1
		if first > 0 {
			upper = first + *w.Max
		}
		out += " WHERE rownum <= " + strconv.Itoa(upper)
	}
	out += " )"
	if first > 0 {
		out += " WHERE rn >= " + strconv.Itoa(first)
	}
	return out
}

// paginateMySQL treats First as 1-based: first=21 starts at offset 20.
func paginateMySQL(sql string, w Window) string {
	if w.Max == nil {
		return sql
	}
	if first := w.first(); first > 0 {
		return sql + " limit " + strconv.Itoa(first-1) + "," + strconv.Itoa(*w.Max+1)
	}
	return sql + " limit " + strconv.Itoa(*w.Max+1)
}

func paginateGeneric(sql string, w Window) string {
	if w.Max != nil {
		sql += " limit " + strconv.Itoa(*w.Max+1)
	}
	if first := w.first(); first > 0 {
		sql += " offset " + strconv.Itoa(first)
	}
	return sql
}
