// Package merge combines the CSV files of a folder into one file.
package merge

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

const (
	// DefaultFolder is merged when no folder is given.
	DefaultFolder = "bucket_data"

	// DefaultOutput is the name of the merged file inside the folder.
	DefaultOutput = "combined_file.csv"
)

// ErrNoTables means no CSV file in the folder could be read. Nothing is
// written in that case.
var ErrNoTables = errors.New(errors.CodeNoData, "no readable CSV files to merge")

// SkippedFile is a CSV file that could not be read.
type SkippedFile struct {
	Name   string
	Reason string
}

// Report summarises one Combine call.
type Report struct {
	Folder string

	// Output is the path of the merged file, empty if nothing was written.
	Output string

	// Merged lists the files whose rows are in the output, in name order.
	Merged []string

	// Skipped lists the files that could not be read.
	Skipped []SkippedFile

	// Rows and Columns describe the merged table, header excluded.
	Rows    int
	Columns int
}

// Merger reads and writes through a Filesystem.
type Merger struct {
	fs     fs.Filesystem
	logger *zap.Logger
	output string
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger. Nil keeps the default, which discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithOutput changes the merged file name.
func WithOutput(name string) Option {
	return func(m *Merger) {
		m.output = name
	}
}

// New returns a Merger over filesystem.
func New(filesystem fs.Filesystem, opts ...Option) *Merger {
	m := &Merger{fs: filesystem, logger: zap.NewNop(), output: DefaultOutput}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Combine concatenates every *.csv file directly inside folder, in name
// order, into folder/<output>, and deletes each source file whether or
// not it could be read. An empty folder means DefaultFolder.
//
// Columns are the union of all headers in first-seen order; cells a file
// does not have are left empty, as are the usual missing-value markers
// ("NA", "NaN", "null", ...). Other values are kept as text. Short rows
// are padded. A file that cannot be parsed is logged at warning level and
// skipped.
//
// If no file could be read, ErrNoTables is returned and no output is
// written.
func (m *Merger) Combine(ctx context.Context, folder string) (*Report, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	report := &Report{Folder: folder}

	names, err := m.csvFiles(folder)
	if err != nil {
		return report, err
	}

	combined := &table{index: map[string]int{}}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.CodeTimeout, "merge cancelled")
		}

		file := path.Join(folder, name)
		df, readErr := m.read(file)

		if err := m.fs.Remove(file); err != nil {
			return report, errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to delete %s", file))
		}

		if readErr != nil {
			m.logger.Warn("could not read file",
				zap.String("file", name),
				zap.Error(readErr),
			)
			report.Skipped = append(report.Skipped, SkippedFile{Name: name, Reason: readErr.Error()})
			continue
		}

		report.Merged = append(report.Merged, name)
		combined.append(df)
	}

	if len(report.Merged) == 0 {
		m.logger.Error("nothing to merge",
			zap.String("folder", folder),
			zap.Int("skipped", len(report.Skipped)),
		)
		return report, fmt.Errorf("folder %s: %w", folder, ErrNoTables)
	}

	output := path.Join(folder, m.output)
	if err := m.write(output, combined); err != nil {
		return report, err
	}

	report.Output = output
	report.Rows = len(combined.rows)
	report.Columns = len(combined.names)

	m.logger.Info("merge complete",
		zap.String("output", output),
		zap.Int("merged", len(report.Merged)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("rows", report.Rows),
		zap.Int("columns", report.Columns),
	)
	return report, nil
}

// csvFiles lists the regular *.csv files of folder by name.
func (m *Merger) csvFiles(folder string) ([]string, error) {
	exists, err := m.fs.Exists(folder)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to stat %s", folder))
	}
	if !exists {
		return nil, errors.Newf(errors.CodeNotFound, "folder %s not found", folder)
	}

	entries, err := m.fs.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to list %s", folder))
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// naValues are the cells read as missing, the same set pandas uses.
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// read parses one CSV file with every column typed as string. Rows
// shorter than the header are padded with missing cells; longer rows
// fail the file. A header with no rows gives an empty frame that still
// carries its columns.
func (m *Merger) read(file string) (dataframe.DataFrame, error) {
	data, err := m.fs.ReadFile(file)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if mt := mimetype.Detect(data); !isText(mt) {
		return dataframe.DataFrame{}, fmt.Errorf("content is %s, not text", mt.String())
	}

	records, err := readRecords(data)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if len(records) == 1 {
		columns := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			columns[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(columns...)
		return df, df.Err
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// readRecords splits data into a header and rows of the header's width.
func readRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, stderrors.New("no header row")
	}

	width := len(records[0])
	for i, record := range records[1:] {
		switch {
		case len(record) > width:
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, width, len(record))
		case len(record) < width:
			padded := make([]string, width)
			copy(padded, record)
			for j := len(record); j < width; j++ {
				padded[j] = "NaN"
			}
			records[i+1] = padded
		}
	}
	return records, nil
}

func isText(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

// table is the outer union of the frames appended to it. Columns keep
// first-seen order; a row is only as wide as the union was when it was
// added, and the remaining cells are missing.
type table struct {
	names []string
	index map[string]int
	rows  [][]string
}

// append adds the rows of df, copying cells straight out of its series so
// a missing cell stays distinguishable from text.
func (t *table) append(df dataframe.DataFrame) {
	names := df.Names()
	positions := make([]int, len(names))
	columns := make([]series.Series, len(names))
	for i, name := range names {
		pos, ok := t.index[name]
		if !ok {
			pos = len(t.names)
			t.index[name] = pos
			t.names = append(t.names, name)
		}
		positions[i] = pos
		columns[i] = df.Col(name)
	}

	for row := 0; row < df.Nrow(); row++ {
		record := make([]string, len(t.names))
		for i, col := range columns {
			if elem := col.Elem(row); !elem.IsNA() {
				record[positions[i]] = elem.String()
			}
		}
		t.rows = append(t.rows, record)
	}
}

// write renders t with a header row. Missing cells are written empty.
func (m *Merger) write(output string, t *table) (err error) {
	f, err := m.fs.Create(output)
	if err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to create %s", output))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.CodeFilesystem, fmt.Sprintf("failed to close %s", output))
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.names); err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to write %s", output))
	}

	record := make([]string, len(t.names))
	for _, row := range t.rows {
		n := copy(record, row)
		clear(record[n:])
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to write %s", output))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, fmt.Sprintf("failed to write %s", output))
	}
	return nil
}

// IsNoTables reports whether err means there was nothing to merge.
func IsNoTables(err error) bool {
	return stderrors.Is(err, ErrNoTables)
}
