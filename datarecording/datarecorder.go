// Package datarecording writes simulation traces into SQLite databases.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table shaped after the sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries into the database.
	Flush()

	// Close flushes and closes the database.
	Close()
}

// New creates a DataRecorder backed by a SQLite file at the given path,
// without the .sqlite3 suffix. An empty path picks a unique name.
func New(path string) DataRecorder {
	return NewSQLiteWriter(path)
}

// NewSQLiteWriter creates a DataRecorder that writes into a SQLite file.
func NewSQLiteWriter(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

type SQLiteWriter struct {
	*sql.DB

	dbName    string
	tables    map[string]*table
	batchSize int
}

func (w *SQLiteWriter) init() {
	if w.dbName == "" {
		w.dbName = "memsim_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)

	for i := 0; i < t.NumField(); i++ {
		if !isAllowedKind(t.Field(i).Type.Kind()) {
			return errors.New("entry field type is not recordable")
		}
	}

	return nil
}

// CreateTable creates a table whose columns are the fields of the sample
// entry.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	t := reflect.TypeOf(sampleEntry)
	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		columns = append(columns, t.Field(i).Name)
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s);",
		tableName, strings.Join(columns, ", "))
	if _, err := w.Exec(stmt); err != nil {
		panic(err)
	}

	w.tables[tableName] = &table{structType: t}
}

// InsertData buffers one entry; entries are written in batches.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	tbl, ok := w.tables[tableName]
	if !ok {
		panic(fmt.Errorf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != tbl.structType {
		panic(fmt.Errorf("entry type does not match table %s", tableName))
	}

	tbl.entries = append(tbl.entries, entry)
	if len(tbl.entries) >= w.batchSize {
		w.flushTable(tableName, tbl)
	}
}

// ListTables returns the names of all created tables.
func (w *SQLiteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	return names
}

// Flush writes all buffered entries into the database.
func (w *SQLiteWriter) Flush() {
	for name, tbl := range w.tables {
		w.flushTable(name, tbl)
	}
}

// Close flushes and closes the database.
func (w *SQLiteWriter) Close() {
	w.Flush()

	if err := w.DB.Close(); err != nil {
		panic(err)
	}
}

func (w *SQLiteWriter) flushTable(name string, tbl *table) {
	if len(tbl.entries) == 0 {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		panic(err)
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", tbl.structType.NumField()), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s VALUES (%s);", name, placeholders))
	if err != nil {
		panic(err)
	}

	for _, entry := range tbl.entries {
		v := reflect.ValueOf(entry)
		args := make([]any, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	tbl.entries = nil
}
