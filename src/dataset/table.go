// Package dataset loads HRV measurement exports into a cleaned table.
//
// Cleaning order matters and mirrors how the exports were curated by hand:
//  1. header names lose every space (" HRV4T_Recovery_Points" -> "HRV4T_Recovery_Points");
//  2. rows at the profile's excluded positions are removed (positions count data rows from 0);
//  3. rows with a zero in any sentinel column are removed (blank cells are kept);
//  4. the date column is parsed with the profile's layout into the date axis.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// positionColumn carries each row's original data position through the gota filters.
const positionColumn = "__position"

// ErrMissingColumn is returned when a configured column is absent from the export.
var ErrMissingColumn = errors.New("missing column")

// CleanReport counts what each cleaning step removed.
type CleanReport struct {
	RowsRead      int
	ExcludedRows  int
	ZeroDropped   map[string]int
	RowsRemaining int
}

func (r CleanReport) String() string {
	cols := make([]string, 0, len(r.ZeroDropped))
	for c := range r.ZeroDropped {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	var zero []string
	for _, c := range cols {
		zero = append(zero, fmt.Sprintf("%s=%d", c, r.ZeroDropped[c]))
	}
	return fmt.Sprintf("read=%d excluded=%d zero_dropped=[%s] kept=%d",
		r.RowsRead, r.ExcludedRows, strings.Join(zero, " "), r.RowsRemaining)
}

// Table is the cleaned measurement table with its parallel date axis.
type Table struct {
	Frame  dataframe.DataFrame
	Dates  []time.Time
	Report CleanReport

	positions []int
}

// Len returns the number of kept rows.
func (t *Table) Len() int { return len(t.Dates) }

// Positions returns the original 0-based data row position of every kept row, in order.
func (t *Table) Positions() []int {
	out := make([]int, len(t.positions))
	copy(out, t.positions)
	return out
}

// Columns returns the normalized column names of the export.
func (t *Table) Columns() []string {
	var out []string
	for _, n := range t.Frame.Names() {
		if n != positionColumn {
			out = append(out, n)
		}
	}
	return out
}

// Metric returns one numeric column of the cleaned table.
func (t *Table) Metric(column string) ([]float64, error) {
	if column == positionColumn || !t.hasColumn(column) {
		return nil, fmt.Errorf("metric %q: %w", column, ErrMissingColumn)
	}
	return t.Frame.Col(column).Float(), nil
}

func (t *Table) hasColumn(name string) bool {
	for _, n := range t.Frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Load reads and cleans the CSV export at path.
func Load(path string, p Profile) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	start := time.Now()
	defer TimeTrack(start, "load "+path)
	return LoadReader(f, p)
}

// LoadReader reads and cleans a CSV export.
func LoadReader(r io.Reader, p Profile) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: no header row")
	}
	records[0] = normalizeHeader(records[0])
	for i := 1; i < len(records); i++ {
		for j := range records[i] {
			records[i][j] = strings.TrimSpace(records[i][j])
		}
	}
	header := records[0]
	if !contains(header, p.DateColumn) {
		return nil, fmt.Errorf("date column %q: %w", p.DateColumn, ErrMissingColumn)
	}
	for _, c := range p.ZeroSentinelColumns {
		if !contains(header, c) {
			return nil, fmt.Errorf("sentinel column %q: %w", c, ErrMissingColumn)
		}
	}
	Infof("columns: %s", strings.Join(header, ", "))

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues([]string{"NA", "NaN", "<nil>", ""}),
		dataframe.WithTypes(map[string]series.Type{p.DateColumn: series.String}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build table: %w", df.Err)
	}
	rows := df.Nrow()
	report := CleanReport{RowsRead: rows, ZeroDropped: map[string]int{}}

	positions := make([]int, rows)
	for i := range positions {
		positions[i] = i
	}
	df = df.Mutate(series.New(positions, series.Int, positionColumn))

	keep, err := keepPositions(rows, p.ExcludeRows)
	if err != nil {
		return nil, err
	}
	df = df.Subset(keep)
	if df.Err != nil {
		return nil, fmt.Errorf("exclude rows: %w", df.Err)
	}
	report.ExcludedRows = rows - df.Nrow()

	for _, c := range p.ZeroSentinelColumns {
		before := df.Nrow()
		df = df.Filter(dataframe.F{Colname: c, Comparator: series.CompFunc, Comparando: notZero})
		if df.Err != nil {
			return nil, fmt.Errorf("drop zero %s: %w", c, df.Err)
		}
		report.ZeroDropped[c] = before - df.Nrow()
	}
	report.RowsRemaining = df.Nrow()

	kept, err := df.Col(positionColumn).Int()
	if err != nil {
		return nil, fmt.Errorf("row positions: %w", err)
	}
	dates, err := ParseDates(df.Col(p.DateColumn).Records(), p.DateLayout)
	if err != nil {
		return nil, err
	}
	Infof("cleaned: %s", report)
	return &Table{
		Frame:     df,
		Dates:     dates,
		Report:    report,
		positions: kept,
	}, nil
}

// notZero keeps missing values; only a recorded 0 marks a missed reading.
func notZero(e series.Element) bool {
	return e.IsNA() || e.Float() != 0
}

// normalizeHeader removes every space from the column names.
func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, name := range h {
		out[i] = strings.ReplaceAll(strings.TrimSpace(name), " ", "")
	}
	return out
}

// keepPositions returns the row positions that survive exclusion. Out of range positions are
// an error: they mean the profile was written for a different export.
func keepPositions(rows int, exclude []int) ([]int, error) {
	drop := map[int]bool{}
	for _, e := range exclude {
		if e < 0 || e >= rows {
			return nil, fmt.Errorf("exclude row %d out of range (table has %d rows)", e, rows)
		}
		drop[e] = true
	}
	keep := make([]int, 0, rows-len(drop))
	for i := 0; i < rows; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	return keep, nil
}

// ParseDates parses every value with layout. The first malformed value aborts the parse.
func ParseDates(values []string, layout string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := time.Parse(layout, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse date %q with layout %q: %w", i, v, layout, err)
		}
		out[i] = t
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
