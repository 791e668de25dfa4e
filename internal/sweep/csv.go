package sweep

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"TotoSentinel/internal/model"
)

var nan = math.NaN()

// Header is the sweep CSV column order.
var Header = []string{
	"lookback", "decay_floor", "avg_profit", "win_rate",
	"total_draws", "total_wins", "total_cost", "total_prize", "net_profit",
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []model.SweepRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Lookback),
			strconv.FormatFloat(r.DecayFloor, 'f', -1, 64),
			strconv.FormatFloat(r.AvgProfit, 'f', -1, 64),
			strconv.FormatFloat(r.WinRate, 'f', -1, 64),
			strconv.Itoa(r.TotalDraws),
			strconv.Itoa(r.TotalWins),
			strconv.Itoa(r.TotalCost),
			strconv.Itoa(r.TotalPrize),
			strconv.Itoa(r.NetProfit),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a sweep CSV written by WriteCSV. Header names are case-insensitive.
func ReadCSV(r io.Reader) ([]model.SweepRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty sweep file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range Header {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var out []model.SweepRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p := rowParser{row: row, pos: pos}
		rec := model.SweepRecord{
			Lookback:   p.parseInt("lookback"),
			DecayFloor: p.parseFloat("decay_floor"),
			AvgProfit:  p.parseFloat("avg_profit"),
			WinRate:    p.parseFloat("win_rate"),
			TotalDraws: p.parseInt("total_draws"),
			TotalWins:  p.parseInt("total_wins"),
			TotalCost:  p.parseInt("total_cost"),
			TotalPrize: p.parseInt("total_prize"),
			NetProfit:  p.parseInt("net_profit"),
		}
		if p.err != nil {
			return nil, fmt.Errorf("line %d: %w", line, p.err)
		}
		out = append(out, rec)
	}
	return out, nil
}

type rowParser struct {
	row []string
	pos map[string]int
	err error
}

func (p *rowParser) raw(name string) string {
	i := p.pos[name]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) parseFloat(name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.raw(name), 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

// parseInt accepts "12" and "12.0" since totals may have been re-saved as floats.
func (p *rowParser) parseInt(name string) int {
	f := p.parseFloat(name)
	return int(math.Round(f))
}

// SaveCSV writes records to path, creating its directory if needed.
func SaveCSV(path string, records []model.SweepRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadCSV reads records from path.
func LoadCSV(path string) ([]model.SweepRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sweep results: %w", err)
	}
	defer f.Close()
	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}
