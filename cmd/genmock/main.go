// Command genmock reads the surf readings CSV and generates the JSON fixtures
// used by the pipeline tests and the integration suite. It runs the actual
// domain assessment so the assessed fixture matches real pipeline output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/surf_readings_250614.csv \
//	  -raw-out data/mock/surf_readings_250614.json \
//	  -assessed-out data/mock/surf_assessments_250614.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// processedAt is the fixed ProcessedAt stamped on generated assessments.
var processedAt = time.Date(2025, time.June, 14, 18, 0, 0, 0, time.UTC)

var csvColumns = []string{"spot", "observed_at", "wave_height_m", "wave_period_s", "wind_speed_kmh", "wind_gust_kmh"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "surf readings CSV file")
	rawOut := flag.String("raw-out", "", "output path for the raw readings JSON fixture")
	assessedOut := flag.String("assessed-out", "", "output path for the assessed JSON fixture (optional)")
	flag.Parse()

	if *csvPath == "" || *rawOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -raw-out")
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	defer domain.SetClock(nil)

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	readings, err := parseReadings(f)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}
	log.Printf("readings: %d", len(readings))

	assessed, err := assessAll(readings)
	if err != nil {
		return err
	}

	if err := writeJSON(*rawOut, readings); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if *assessedOut != "" {
		if err := writeJSON(*assessedOut, assessed); err != nil {
			return fmt.Errorf("writing assessed fixture: %w", err)
		}
		log.Printf("wrote assessed fixture: %s", *assessedOut)
	}

	printStats(os.Stdout, assessed)
	return nil
}

// parseReadings decodes the CSV. Empty numeric cells become missing fields.
func parseReadings(r io.Reader) ([]domain.SpotReading, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, c := range csvColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	readings := make([]domain.SpotReading, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		observedAt, err := time.Parse(time.RFC3339, get(row, colIdx, "observed_at"))
		if err != nil {
			return nil, fmt.Errorf("line %d: observed_at: %w", line, err)
		}

		rec := domain.SpotReading{
			Spot:       get(row, colIdx, "spot"),
			ObservedAt: observedAt.UTC(),
		}
		fields := []struct {
			col string
			dst **float64
		}{
			{"wave_height_m", &rec.WaveHeightM},
			{"wave_period_s", &rec.WavePeriodS},
			{"wind_speed_kmh", &rec.WindSpeedKmh},
			{"wind_gust_kmh", &rec.WindGustKmh},
		}
		for _, fd := range fields {
			v, err := parseOptionalFloat(get(row, colIdx, fd.col))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, fd.col, err)
			}
			*fd.dst = v
		}
		readings = append(readings, rec)
	}
	return readings, nil
}

// assessAll runs every reading through the same parse and assess path as the
// pipeline.
func assessAll(readings []domain.SpotReading) ([]domain.Assessment, error) {
	out := make([]domain.Assessment, 0, len(readings))
	for _, rec := range readings {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal reading: %w", err)
		}
		parsed, err := domain.ParseRawEvent(domain.RawEvent{Key: []byte(rec.Spot), Value: payload})
		if err != nil {
			return nil, fmt.Errorf("parse reading for %s: %w", rec.Spot, err)
		}
		out = append(out, domain.AssessReading(parsed))
	}
	return out, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats prints the counts test assertions are written against.
func printStats(w io.Writer, assessed []domain.Assessment) {
	qualities := map[domain.Quality]int{}
	signals := map[domain.SignalKind]int{}
	best := map[time.Time]domain.Assessment{}
	for _, a := range assessed {
		qualities[a.Result.Quality]++
		signals[a.Signal.Kind]++
		if cur, ok := best[a.ObservedAt]; !ok || a.Result.Score > cur.Result.Score {
			best[a.ObservedAt] = a
		}
	}

	fmt.Fprintln(w, "\n=== Stats for updating test assertions ===")
	fmt.Fprintf(w, "Total: %d\n", len(assessed))
	fmt.Fprintf(w, "By quality: excellent=%d, good=%d, average=%d, poor=%d, storm=%d\n",
		qualities[domain.QualityExcellent], qualities[domain.QualityGood], qualities[domain.QualityAverage],
		qualities[domain.QualityPoor], qualities[domain.QualityStorm])
	fmt.Fprintf(w, "By signal: must_surf=%d, good_session=%d, watch=%d, storm=%d\n",
		signals[domain.SignalMustSurf], signals[domain.SignalGoodSession], signals[domain.SignalWatch], signals[domain.SignalStorm])

	times := make([]time.Time, 0, len(best))
	for t := range best {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for _, t := range times {
		a := best[t]
		fmt.Fprintf(w, "Best at %s: %s %.2f (%s)\n", t.Format(time.RFC3339), a.Spot, a.Result.Score, a.Result.Quality)
	}
}
