// Command validate performs data integrity checks across the surf mock data:
// the source CSV, the raw readings JSON fixture and, optionally, the assessed
// fixture. It verifies row parity, field ranges, assessment invariants and
// that the assessed fixture still matches what the pipeline would produce.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/mock/surf_readings_250614.csv \
//	  -raw-json data/mock/surf_readings_250614.json \
//	  -assessed-json data/mock/surf_assessments_250614.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "surf readings CSV file")
	rawJSON := flag.String("raw-json", "", "path to the raw readings JSON fixture")
	assessedJSON := flag.String("assessed-json", "", "path to the assessed JSON fixture (optional)")
	flag.Parse()

	if *csvPath == "" || *rawJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *csvPath, *rawJSON, *assessedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, csvPath, rawJSONPath, assessedJSONPath string) int {
	// Same fixed clock as genmock so ProcessedAt is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.June, 14, 18, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Fprintln(w, "=== Surf Data Integrity Validation ===")
	fmt.Fprintln(w)

	rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	readings, err := loadJSON[domain.SpotReading](rawJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCSVParity(rows, readings),
		validateRawIntegrity(readings),
		validateAssessmentInvariants(readings),
	}

	var assessed []domain.Assessment
	if assessedJSONPath != "" {
		assessed, err = loadJSON[domain.Assessment](assessedJSONPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load assessed JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateAssessedFixture(assessed, readings))
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d CSV, %d raw JSON, %d assessed JSON\n", len(rows), len(readings), len(assessed))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// csvRow is a parsed CSV row with field values keyed by header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	header := all[0]
	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[strings.TrimSpace(h)] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// ── Phase 1: CSV ↔ raw JSON ──

func validateCSVParity(rows []csvRow, readings []domain.SpotReading) *phase {
	p := &phase{name: "CSV ↔ raw JSON parity"}
	if len(rows) != len(readings) {
		p.errorf("row count: CSV has %d, JSON has %d", len(rows), len(readings))
	}

	for i := range min(len(rows), len(readings)) {
		row, rec := rows[i], readings[i]
		if row.fields["spot"] != rec.Spot {
			p.errorf("line %d: spot %q, JSON has %q", row.lineNum, row.fields["spot"], rec.Spot)
		}
		at, err := time.Parse(time.RFC3339, row.fields["observed_at"])
		if err != nil || !at.Equal(rec.ObservedAt) {
			p.errorf("line %d: observed_at %q, JSON has %s", row.lineNum, row.fields["observed_at"], rec.ObservedAt.Format(time.RFC3339))
		}
		checkCSVField(p, row, "wave_height_m", rec.WaveHeightM)
		checkCSVField(p, row, "wave_period_s", rec.WavePeriodS)
		checkCSVField(p, row, "wind_speed_kmh", rec.WindSpeedKmh)
		checkCSVField(p, row, "wind_gust_kmh", rec.WindGustKmh)
	}
	return p
}

func checkCSVField(p *phase, row csvRow, col string, got *float64) {
	raw := row.fields[col]
	var want *float64
	if raw != "" {
		var v float64
		if _, err := fmt.Sscanf(raw, "%g", &v); err != nil {
			p.errorf("line %d: %s %q is not a number", row.lineNum, col, raw)
			return
		}
		want = &v
	}
	if !ptrFloatEq(want, got) {
		p.errorf("line %d: %s CSV=%s JSON=%s", row.lineNum, col, ptrFloat(want), ptrFloat(got))
	}
}

// ── Phase 2: raw JSON integrity ──

func validateRawIntegrity(readings []domain.SpotReading) *phase {
	p := &phase{name: "Raw JSON integrity"}
	seen := map[string]bool{}
	for i, rec := range readings {
		if _, ok := domain.SpotBySlug(rec.Spot); !ok {
			p.errorf("[%d] spot %q is not in the catalog", i, rec.Spot)
		}
		if rec.ObservedAt.IsZero() {
			p.errorf("[%d] %s: observed_at is zero", i, rec.Spot)
		}
		key := rec.Spot + "|" + rec.ObservedAt.UTC().Format(time.RFC3339)
		if seen[key] {
			p.errorf("[%d] duplicate reading %s", i, key)
		}
		seen[key] = true

		for name, v := range map[string]*float64{
			"wave_height_m":  rec.WaveHeightM,
			"wave_period_s":  rec.WavePeriodS,
			"wind_speed_kmh": rec.WindSpeedKmh,
			"wind_gust_kmh":  rec.WindGustKmh,
		} {
			if v != nil && (*v < 0 || math.IsNaN(*v)) {
				p.errorf("[%d] %s: %s is %v", i, rec.Spot, name, *v)
			}
		}
	}
	return p
}

// ── Phase 3: assessment invariants ──

func validateAssessmentInvariants(readings []domain.SpotReading) *phase {
	p := &phase{name: "Assessment invariants"}
	for i, rec := range readings {
		a := domain.AssessReading(rec)
		pf := func(format string, args ...any) {
			p.errorf("[%d] %s: "+format, append([]any{i, rec.Spot}, args...)...)
		}

		if a.Result.Score < 0 || a.Result.Score > 10 {
			pf("score %.3f out of [0,10]", a.Result.Score)
		}
		if a.Result.Storm != (a.Result.Quality == domain.QualityStorm) {
			pf("storm=%v but quality %s", a.Result.Storm, a.Result.Quality)
		}
		if !a.Result.Storm && a.Result.Quality != domain.ClassifyQuality(a.Result.Score) {
			pf("quality %s does not match score %.3f", a.Result.Quality, a.Result.Score)
		}
		if a.Result.Storm && a.Signal.Kind != domain.SignalStorm {
			pf("storm reading signalled %s", a.Signal.Kind)
		}
		if a.Tide.PhaseFraction < 0 || a.Tide.PhaseFraction >= 1 {
			pf("tide phase fraction %.3f out of [0,1)", a.Tide.PhaseFraction)
		}
		if again := domain.AssessReading(rec); again.ID != a.ID || !floatEq(again.Result.Score, a.Result.Score) {
			pf("assessment is not deterministic")
		}
	}
	return p
}

// ── Phase 4: assessed fixture ──

func validateAssessedFixture(assessed []domain.Assessment, readings []domain.SpotReading) *phase {
	p := &phase{name: "Assessed JSON matches pipeline"}
	if len(assessed) != len(readings) {
		p.errorf("count: %d assessed, %d readings", len(assessed), len(readings))
	}

	for i := range min(len(assessed), len(readings)) {
		want := domain.AssessReading(readings[i])
		got := assessed[i]
		if got.ID != want.ID {
			p.errorf("[%d] id %s, expected %s", i, got.ID, want.ID)
		}
		if !floatEq(got.Result.Score, want.Result.Score) {
			p.errorf("[%d] %s: score %.6f, expected %.6f", i, want.Spot, got.Result.Score, want.Result.Score)
		}
		if got.Result.Quality != want.Result.Quality {
			p.errorf("[%d] %s: quality %s, expected %s", i, want.Spot, got.Result.Quality, want.Result.Quality)
		}
		if got.Signal.Kind != want.Signal.Kind {
			p.errorf("[%d] %s: signal %s, expected %s", i, want.Spot, got.Signal.Kind, want.Signal.Kind)
		}
		if got.Tide.State != want.Tide.State {
			p.errorf("[%d] %s: tide %s, expected %s", i, want.Spot, got.Tide.State, want.Tide.State)
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}

func ptrFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%g", *f)
}
