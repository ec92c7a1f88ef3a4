package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWeekDays = 8
	maxWeekDays     = 16
	maxBodyBytes    = 1 << 20

	// Live assessments within the same hour share an observation time, so
	// repeated requests overwrite one snapshot instead of adding rows.
	snapshotInterval = time.Hour
)

type spotView struct {
	domain.Spot
	CameraLink string `json:"camera_link"`
}

func (s *Server) handleSpots(w http.ResponseWriter, _ *http.Request) {
	spots := domain.Spots()
	out := make([]spotView, len(spots))
	for i, sp := range spots {
		out[i] = spotView{Spot: sp, CameraLink: sp.CameraLink()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"spots": out})
}

func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	spot, ok := s.lookupSpot(w, r)
	if !ok {
		return
	}

	reading, err := s.api.Source.Current(r.Context(), spot)
	if err != nil {
		s.logger.Warn("live conditions unavailable", "spot", spot.Slug, "error", err)
		if a, found := s.latestSnapshot(r, spot.Slug); found {
			a.Stale = true
			writeJSON(w, http.StatusOK, a)
			return
		}
		writeError(w, http.StatusBadGateway, "conditions unavailable for "+spot.Slug)
		return
	}

	a := domain.AssessSpot(spot, reading, s.api.Clock.Now().UTC().Truncate(snapshotInterval))
	s.countAssessment(a.Result.Quality)
	if s.api.Store != nil {
		if err := s.api.Store.Save(r.Context(), a); err != nil {
			s.logger.Warn("snapshot save failed", "spot", spot.Slug, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, a)
}

type weekResponse struct {
	Spot    domain.Spot            `json:"spot"`
	Days    []domain.DayAssessment `json:"days"`
	BestDay *domain.DayAssessment  `json:"best_day,omitempty"`
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	spot, ok := s.lookupSpot(w, r)
	if !ok {
		return
	}

	days := defaultWeekDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxWeekDays {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 16")
			return
		}
		days = n
	}

	readings, err := s.api.Source.Daily(r.Context(), spot, days)
	if err != nil {
		s.logger.Warn("daily forecast unavailable", "spot", spot.Slug, "error", err)
		writeError(w, http.StatusBadGateway, "forecast unavailable for "+spot.Slug)
		return
	}

	resp := weekResponse{Spot: spot, Days: domain.AggregateDays(readings)}
	if best, ok := domain.BestDay(resp.Days); ok {
		resp.BestDay = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

type rankingResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Spots       []domain.SpotAssessment `json:"spots"`
	Failed      []string                `json:"failed,omitempty"`
}

// handleRanking fetches every catalog spot with bounded parallelism. Spots
// whose fetch fails are listed under "failed" instead of failing the request.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	spots := domain.Spots()
	results := make([]*domain.SpotAssessment, len(spots))

	var g errgroup.Group
	g.SetLimit(s.api.RankingConcurrency)
	for i, spot := range spots {
		g.Go(func() error {
			reading, err := s.api.Source.Current(r.Context(), spot)
			if err != nil {
				s.logger.Warn("ranking fetch failed", "spot", spot.Slug, "error", err)
				return nil
			}
			sample := domain.NormalizeSample(reading)
			results[i] = &domain.SpotAssessment{
				Spot:   spot,
				Sample: sample,
				Result: domain.Assess(sample),
				Signal: domain.ClassifySignal(sample),
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := rankingResponse{GeneratedAt: s.api.Clock.Now().UTC()}
	ok := make([]domain.SpotAssessment, 0, len(spots))
	for i, res := range results {
		if res == nil {
			resp.Failed = append(resp.Failed, spots[i].Slug)
			continue
		}
		ok = append(ok, *res)
	}
	if len(ok) == 0 {
		writeError(w, http.StatusBadGateway, "no spot could be fetched")
		return
	}
	resp.Spots = domain.RankSpots(ok)
	writeJSON(w, http.StatusOK, resp)
}

type assessResponse struct {
	Sample      domain.ConditionSample `json:"sample"`
	Result      domain.ScoreResult     `json:"result"`
	Signal      domain.SignalResult    `json:"signal"`
	Explanation string                 `json:"explanation"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var raw domain.RawReading
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid reading: "+err.Error())
		return
	}

	sample := domain.NormalizeSample(raw)
	resp := assessResponse{
		Sample:      sample,
		Result:      domain.Assess(sample),
		Signal:      domain.ClassifySignal(sample),
		Explanation: domain.ExplainConditions(sample),
	}
	s.countAssessment(resp.Result.Quality)
	writeJSON(w, http.StatusOK, resp)
}

type tideResponse struct {
	domain.TidePhase
	Label      string `json:"label"`
	Disclaimer string `json:"disclaimer"`
}

func (s *Server) handleTide(w http.ResponseWriter, r *http.Request) {
	at := s.api.Clock.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "at must be an RFC3339 timestamp")
			return
		}
		at = t
	}

	phase := domain.EstimateTide(at.UTC())
	writeJSON(w, http.StatusOK, tideResponse{
		TidePhase:  phase,
		Label:      phase.Label(),
		Disclaimer: domain.TideDisclaimer,
	})
}

func (s *Server) lookupSpot(w http.ResponseWriter, r *http.Request) (domain.Spot, bool) {
	slug := r.PathValue("slug")
	spot, ok := domain.SpotBySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown spot: "+slug)
	}
	return spot, ok
}

func (s *Server) latestSnapshot(r *http.Request, slug string) (domain.Assessment, bool) {
	if s.api.Store == nil {
		return domain.Assessment{}, false
	}
	a, found, err := s.api.Store.Latest(r.Context(), slug)
	if err != nil {
		s.logger.Warn("snapshot lookup failed", "spot", slug, "error", err)
		return domain.Assessment{}, false
	}
	return a, found
}

func (s *Server) countAssessment(q domain.Quality) {
	if s.api.Metrics != nil {
		s.api.Metrics.Assessments.WithLabelValues(string(q)).Inc()
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
