package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"TotoSentinel/internal/model"
)

// DateLayout is the day/month/year layout used by the draw CSV.
const DateLayout = "2/1/2006"

var (
	idColumn         = "draw"
	dateColumn       = "date"
	winningColumns   = []string{"winning number 1", "2", "3", "4", "5", "6"}
	additionalColumn = "additional number"
)

// Load reads the draw table from a CSV file.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draws: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "draws": s.Len()}).Info("draw table loaded")
	return s, nil
}

// Read parses a draw CSV with a header row. Columns are matched by name.
func Read(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty draw file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var draws []model.Draw
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		d, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		draws = append(draws, d)
	}
	return New(draws)
}

type columns struct {
	id, date, additional int
	winning              []int
}

func locateColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}
	find := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}

	var c columns
	var err error
	if c.id, err = find(idColumn); err != nil {
		return c, err
	}
	if c.date, err = find(dateColumn); err != nil {
		return c, err
	}
	if c.additional, err = find(additionalColumn); err != nil {
		return c, err
	}
	for _, name := range winningColumns {
		i, err := find(name)
		if err != nil {
			return c, err
		}
		c.winning = append(c.winning, i)
	}
	return c, nil
}

func parseRow(rec []string, c columns) (model.Draw, error) {
	var d model.Draw

	id, err := strconv.Atoi(cell(rec, c.id))
	if err != nil {
		return d, fmt.Errorf("parse draw id: %w", err)
	}
	d.ID = id

	date, err := time.Parse(DateLayout, cell(rec, c.date))
	if err != nil {
		return d, fmt.Errorf("parse date: %w", err)
	}
	d.Date = date

	seen := make(map[int]bool, 7)
	for _, i := range c.winning {
		v := cell(rec, i)
		if v == "" {
			continue
		}
		n, err := parseNumber(v)
		if err != nil {
			return d, err
		}
		if seen[n] {
			return d, fmt.Errorf("draw %d: duplicate winning number %d", id, n)
		}
		seen[n] = true
		d.Winning = append(d.Winning, n)
	}

	if v := cell(rec, c.additional); v != "" {
		n, err := parseNumber(v)
		if err != nil {
			return d, err
		}
		if seen[n] {
			return d, fmt.Errorf("draw %d: additional number %d repeats a winning number", id, n)
		}
		d.Additional = n
	}
	return d, nil
}

// parseNumber accepts "7" as well as "7.0", which spreadsheet exports produce for
// columns that contain blanks.
func parseNumber(v string) (int, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", v, err)
	}
	n := int(f)
	if float64(n) != f || n < model.MinNumber || n > model.MaxNumber {
		return 0, fmt.Errorf("number %q out of range %d-%d", v, model.MinNumber, model.MaxNumber)
	}
	return n, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
