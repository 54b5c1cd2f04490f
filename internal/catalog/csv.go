package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// File names of the directory layout.
const (
	ValuesFile   = "values.csv"
	CriteriaFile = "criteria.csv"
)

type pendingItem struct {
	name        string
	description string
	ratings     map[preference.Criterion]preference.Value
	line        int
}

// ReadValuesCSV reads rows of item,criterion_name,value[,description]. A
// header row starting with "item" is skipped. Items keep first-seen order.
func ReadValuesCSV(r io.Reader, source string) (*preference.Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var order []*pendingItem
	byName := make(map[string]*pendingItem)
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err, source)
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(record[0]), "item") {
				continue
			}
		}
		if len(record) < 3 {
			return nil, errors.NewCatalogError(fmt.Sprintf("expected at least 3 fields, got %d", len(record)), errors.ErrInvalidInput).
				WithPath(source).WithLine(line)
		}

		name := strings.TrimSpace(record[0])
		c, err := preference.ParseCriterion(record[1])
		if err != nil {
			return nil, errors.NewCatalogError("bad criterion", err).WithPath(source).WithLine(line)
		}
		v, err := preference.ParseValue(record[2])
		if err != nil {
			return nil, errors.NewCatalogError("bad value", err).WithPath(source).WithLine(line)
		}

		item, ok := byName[name]
		if !ok {
			item = &pendingItem{name: name, ratings: make(map[preference.Criterion]preference.Value), line: line}
			byName[name] = item
			order = append(order, item)
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			item.description = strings.TrimSpace(record[3])
		}
		item.ratings[c] = v
	}

	items := make([]*preference.Item, 0, len(order))
	for _, p := range order {
		if p.description == "" {
			p.description = preference.DefaultDescription
		}
		item, err := preference.NewItem(p.name, p.description, p.ratings)
		if err != nil {
			return nil, errors.NewCatalogError("incomplete item", err).WithPath(source).WithLine(p.line)
		}
		items = append(items, item)
	}
	cat, err := preference.NewCatalog(items...)
	if err != nil {
		return nil, errors.NewCatalogError("invalid catalog", err).WithPath(source)
	}
	return cat, nil
}

// ReadCriteriaCSV reads rows of rank,criterion_name into a profile. Rank 1
// is the most important. A header row starting with "rank" is skipped.
func ReadCriteriaCSV(r io.Reader, source string) (*preference.Profile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	type ranked struct {
		rank      int
		criterion preference.Criterion
	}
	var rows []ranked
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err, source)
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(record[0]), "rank") {
				continue
			}
		}
		if len(record) < 2 {
			return nil, errors.NewCatalogError("expected rank,criterion_name", errors.ErrInvalidInput).
				WithPath(source).WithLine(line)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.NewCatalogError("bad rank", err).WithPath(source).WithLine(line)
		}
		c, err := preference.ParseCriterion(record[1])
		if err != nil {
			return nil, errors.NewCatalogError("bad criterion", err).WithPath(source).WithLine(line)
		}
		rows = append(rows, ranked{rank: rank, criterion: c})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].rank < rows[j].rank })
	order := make([]preference.Criterion, len(rows))
	for i, row := range rows {
		order[i] = row.criterion
	}
	p, err := preference.NewProfile(order...)
	if err != nil {
		return nil, errors.NewCatalogError("invalid criteria order", err).WithPath(source)
	}
	return p, nil
}

// LoadDir reads the directory layout: values.csv with the shared ratings and
// one <agent>/criteria.csv per agent. Agents are ordered by name.
func LoadDir(dir string) (*Dataset, error) {
	valuesPath := filepath.Join(dir, ValuesFile)
	cat, err := readFile(valuesPath, func(r io.Reader) (*preference.Catalog, error) {
		return ReadValuesCSV(r, valuesPath)
	})
	if err != nil {
		return nil, err
	}
	ds := newDataset(cat, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewCatalogError("failed to list directory", err).WithPath(dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		criteriaPath := filepath.Join(dir, entry.Name(), CriteriaFile)
		if _, err := os.Stat(criteriaPath); err != nil {
			continue
		}
		profile, err := readFile(criteriaPath, func(r io.Reader) (*preference.Profile, error) {
			return ReadCriteriaCSV(r, criteriaPath)
		})
		if err != nil {
			return nil, err
		}
		ds.SetProfile(entry.Name(), profile)
	}
	return ds, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, errors.NewCatalogError("failed to open file", err).WithPath(path)
	}
	defer f.Close()
	return read(f)
}

func csvError(err error, source string) error {
	ce := errors.NewCatalogError("unreadable row", err).WithPath(source)
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		ce = ce.WithLine(pe.Line)
	}
	return ce
}
