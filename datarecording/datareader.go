package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
)

// QueryParams filters, orders and pages the rows of a table. Where and
// OrderBy are SQL fragments over the column names, which are the field names
// of the mapped struct, for example Where "Algorithm = ? AND NumFrames > ?"
// and OrderBy "NumFrames DESC".
type QueryParams struct {
	Where   string
	Args    []any
	OrderBy string

	// Limit caps the number of returned rows. Zero returns every row.
	Limit int

	// Offset skips rows, also when Limit is zero.
	Offset int
}

func (p QueryParams) validate() error {
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("negative limit %d or offset %d", p.Limit, p.Offset)
	}

	return nil
}

func (p QueryParams) whereClause() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) pageClause() string {
	var b strings.Builder

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	switch {
	case p.Limit > 0:
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)
	case p.Offset > 0:
		b.WriteString(" LIMIT -1")
	}

	if p.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", p.Offset)
	}

	return b.String()
}

// DataReader reads back the tables written by a DataRecorder, such as the
// run and fault tables of a sweep, decoding rows into the structs they were
// written from.
type DataReader interface {
	// MapTable tells the reader which struct the rows of a table decode
	// into. A table must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables in name order.
	ListTables() []string

	// Query returns pointers to the decoded rows that match params, together
	// with the number of rows matching the filter before paging.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

// A tableMapping decodes columns into the fields of one struct type.
type tableMapping struct {
	structType reflect.Type
	fieldIndex map[string]int
}

func newTableMapping(sampleEntry any) tableMapping {
	t := reflect.TypeOf(sampleEntry)
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("cannot map table to %T, a struct is required",
			sampleEntry))
	}

	m := tableMapping{
		structType: t,
		fieldIndex: make(map[string]int, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		m.fieldIndex[t.Field(i).Name] = i
	}

	return m
}

// decode scans the current row into a new struct. Columns without a field
// are skipped.
func (m tableMapping) decode(rows *sql.Rows, columns []string) (any, error) {
	entry := reflect.New(m.structType)
	targets := make([]any, len(columns))

	for i, column := range columns {
		if index, ok := m.fieldIndex[column]; ok {
			targets[i] = entry.Elem().Field(index).Addr().Interface()
		} else {
			targets[i] = new(any)
		}
	}

	err := rows.Scan(targets...)
	if err != nil {
		return nil, err
	}

	return entry.Interface(), nil
}

type sqliteReader struct {
	db     *sql.DB
	tables map[string]tableMapping
}

// NewReader opens an existing database file for reading.
func NewReader(dbFilename string) (DataReader, error) {
	_, err := os.Stat(dbFilename)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:     db,
		tables: make(map[string]tableMapping),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.tables[tableName] = newTableMapping(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	mapping, ok := r.tables[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	err := params.validate()
	if err != nil {
		return nil, 0, err
	}

	var total int

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+params.whereClause(),
		params.Args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", tableName, err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM "+tableName+params.whereClause()+params.pageClause(),
		params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, 0, err
	}

	results := []any{}

	for rows.Next() {
		entry, err := mapping.decode(rows, columns)
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", tableName, err)
		}

		results = append(results, entry)
	}

	return results, total, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
