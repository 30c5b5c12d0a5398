package testquakes

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quakescope/quakescope/pkg/logger"
)

// Constants for magnitude band selection.
const (
	magBandCount = 10
	caseMicroA   = 0
	caseMicroB   = 1
	caseMicroC   = 2
	caseMicroD   = 3
	caseMinorA   = 4
	caseMinorB   = 5
	caseMinorC   = 6
	caseLightA   = 7
	caseLightB   = 8
	caseModerate = 9
)

// Constants for magnitude generation ranges.
const (
	microMin      = 0.3
	microRange    = 1.7
	minorMin      = 2.0
	minorRange    = 1.5
	lightMin      = 3.5
	lightRange    = 1.5
	moderateMin   = 5.0
	moderateRange = 2.8
)

// Constants for depth generation.
const (
	shallowMin        = 1.5
	shallowRange      = 33.5
	intermediateMin   = 35.0
	intermediateRange = 265.0
	deepMin           = 300.0
	deepRange         = 350.0
	negativeDepthMax  = 2.5
	negativeDepthRate = 0.02
	intermediateRate  = 0.30
	deepRate          = 0.10
)

// Constants for place descriptions.
const (
	minTownDistance   = 2
	townDistanceRange = 160
	messSeedOffset    = 1_000_003
)

// site holds one seismic area the generator draws events from.
type site struct {
	region   string
	network  string
	towns    []string
	latMin   float64
	latMax   float64
	lonMin   float64
	lonMax   float64
	deepBand bool // subduction zones also produce intermediate and deep events
}

var sites = []site{
	{region: "Alaska", network: "ak", towns: []string{"Anchor Point", "Denali National Park", "Sand Point", "Kobuk"}, latMin: 54, latMax: 66, lonMin: -165, lonMax: -140},
	{region: "CA", network: "ci", towns: []string{"Ridgecrest", "The Geysers", "Parkfield", "Borrego Springs"}, latMin: 32.5, latMax: 41, lonMin: -124, lonMax: -115},
	{region: "Hawaii", network: "hv", towns: []string{"Pāhala", "Volcano", "Honaunau-Napoopoo"}, latMin: 18.9, latMax: 20.3, lonMin: -156.1, lonMax: -154.8},
	{region: "Nevada", network: "nn", towns: []string{"Hawthorne", "Tonopah", "Beatty"}, latMin: 36, latMax: 41.5, lonMin: -120, lonMax: -114.5},
	{region: "Puerto Rico", network: "pr", towns: []string{"Guánica", "Ponce", "Yauco"}, latMin: 17.6, latMax: 18.6, lonMin: -67.5, lonMax: -65.5},
	{region: "Indonesia", network: "us", towns: []string{"Luwuk", "Palu", "Tobelo"}, latMin: -9, latMax: 2, lonMin: 95, lonMax: 128, deepBand: true},
	{region: "Japan", network: "us", towns: []string{"Hachinohe", "Ishinomaki", "Kushiro"}, latMin: 31, latMax: 44, lonMin: 130, lonMax: 146, deepBand: true},
	{region: "Chile", network: "us", towns: []string{"Calama", "Copiapó", "Valparaíso"}, latMin: -38, latMax: -18, lonMin: -74, lonMax: -68, deepBand: true},
	{region: "Tonga", network: "us", towns: []string{"Neiafu", "Pangai", "Nuku'alofa"}, latMin: -24, latMax: -15, lonMin: -177, lonMax: -172, deepBand: true},
	{region: "Turkey", network: "us", towns: []string{"Malatya", "Elâzığ", "Denizli"}, latMin: 36, latMax: 41, lonMin: 26, lonMax: 44},
}

var directions = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW", "NNE", "ESE", "SSW", "WNW"}

// Generate produces NumRows synthetic rows covering the configured window,
// oldest first. The same seed, worker count, and row count reproduce the
// same snapshot exactly.
func Generate(ctx context.Context, config *Config, stats *Stats) ([]Row, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workerCount := config.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > config.NumRows {
		workerCount = config.NumRows
	}

	days := config.Days
	if days < 1 {
		days = 1
	}
	window := time.Duration(days) * 24 * time.Hour
	end := time.Now().UTC().Truncate(time.Minute)

	logger.Get().Info(ctx, "generating synthetic earthquake rows",
		logger.Int("rows", config.NumRows),
		logger.Int("days", days),
		logger.Int("workers", workerCount),
		logger.Any("seed", seed))

	rows := make([]Row, config.NumRows)

	type rowResult struct {
		index int
		row   Row
		err   error
	}

	resultChan := make(chan rowResult, config.NumRows)

	rowsPerWorker := config.NumRows / workerCount
	for worker := 0; worker < workerCount; worker++ {
		start := worker * rowsPerWorker
		stop := start + rowsPerWorker
		if worker == workerCount-1 {
			stop = config.NumRows // Last worker gets remaining rows
		}

		// Each worker owns a seed-derived RNG so parallel generation
		// stays reproducible.
		go func(w, start, stop int) {
			rng := rand.New(rand.NewSource(seed + int64(w)))
			for i := start; i < stop; i++ {
				select {
				case <-ctx.Done():
					resultChan <- rowResult{index: i, err: ctx.Err()}
					return
				default:
					at := end.Add(-time.Duration(rng.Int63n(int64(window))))
					resultChan <- rowResult{index: i, row: generateSingleRow(rng, at)}
				}
			}
		}(worker, start, stop)
	}

	for i := 0; i < config.NumRows; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during row generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate row %d: %w", result.index, result.err)
			}
			rows[result.index] = result.row
		}
	}

	// Chronological order keeps fixture diffs readable; the loader sorts
	// on its own anyway. Fixed-width UTC timestamps sort lexically.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })

	if config.Messy {
		injectMess(rand.New(rand.NewSource(seed+messSeedOffset)), rows, stats)
	}

	stats.RowsGenerated = len(rows)
	logger.Get().Info(ctx, "generated rows successfully", logger.Int("count", len(rows)))

	return rows, nil
}

// generateSingleRow creates one clean row at the given instant.
func generateSingleRow(rng *rand.Rand, at time.Time) Row {
	s := sites[rng.Intn(len(sites))]

	lat := s.latMin + rng.Float64()*(s.latMax-s.latMin)
	lon := s.lonMin + rng.Float64()*(s.lonMax-s.lonMin)
	dist := minTownDistance + rng.Intn(townDistanceRange)
	town := s.towns[rng.Intn(len(s.towns))]
	dir := directions[rng.Intn(len(directions))]

	return Row{
		Time:      at.Format(usgsTimeLayout),
		Latitude:  strconv.FormatFloat(lat, 'f', 4, 64),
		Longitude: strconv.FormatFloat(lon, 'f', 4, 64),
		Depth:     strconv.FormatFloat(variedDepth(rng, s.deepBand), 'f', 2, 64),
		Mag:       strconv.FormatFloat(variedMagnitude(rng), 'f', 2, 64),
		Place:     fmt.Sprintf("%d km %s of %s, %s", dist, dir, town, s.region),
		Type:      variedType(rng),
		ID:        eventID(rng, s.network),
	}
}

// variedMagnitude draws from banded ranges that follow how often each size
// shows up in a real month of global data: micro events dominate and
// anything above magnitude 5 is rare.
func variedMagnitude(rng *rand.Rand) float64 {
	switch rng.Intn(magBandCount) {
	case caseMicroA, caseMicroB, caseMicroC, caseMicroD:
		// Micro events (0.3 - 2.0) - most common
		return microMin + rng.Float64()*microRange
	case caseMinorA, caseMinorB, caseMinorC:
		// Minor events (2.0 - 3.5)
		return minorMin + rng.Float64()*minorRange
	case caseLightA, caseLightB:
		// Light events (3.5 - 5.0)
		return lightMin + rng.Float64()*lightRange
	case caseModerate:
		// Moderate and up (5.0 - 7.8) - rare
		return moderateMin + rng.Float64()*moderateRange
	default:
		return microMin + rng.Float64()*microRange
	}
}

// variedDepth keeps most events in the shallow crust. Subduction-zone
// sites also produce intermediate and deep focus events, and a couple
// percent of events sit above sea level with a negative depth.
func variedDepth(rng *rand.Rand, deepBand bool) float64 {
	if rng.Float64() < negativeDepthRate {
		return -negativeDepthMax * rng.Float64()
	}

	if deepBand {
		switch band := rng.Float64(); {
		case band < deepRate:
			return deepMin + rng.Float64()*deepRange
		case band < deepRate+intermediateRate:
			return intermediateMin + rng.Float64()*intermediateRange
		}
	}

	return shallowMin + rng.Float64()*shallowRange
}

// variedType picks the event type; real feeds are dominated by tectonic
// events with a sprinkle of human-made and glacial sources.
func variedType(rng *rand.Rand) string {
	switch v := rng.Float64(); {
	case v < 0.92:
		return "earthquake"
	case v < 0.96:
		return "quarry blast"
	case v < 0.99:
		return "explosion"
	default:
		return "ice quake"
	}
}

// eventID builds a USGS-style identifier: network code plus a short tail
// drawn from the row RNG so seeded runs reproduce exactly.
func eventID(rng *rand.Rand, network string) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return network + strconv.FormatInt(rng.Int63(), 36)
	}
	return network + strings.ReplaceAll(id.String(), "-", "")[:10]
}

// injectMess rewrites a small share of rows so the normalizer's drop and
// nil-fill paths stay exercised by generated fixtures. Each row receives
// at most one mutation.
func injectMess(rng *rand.Rand, rows []Row, stats *Stats) {
	for i := range rows {
		switch v := rng.Float64(); {
		case v < missingMagRate:
			rows[i].Mag = ""
			stats.MissingMagnitude++
		case v < missingDepthRate:
			rows[i].Depth = ""
			stats.MissingDepth++
		case v < missingIDRate:
			rows[i].ID = ""
			stats.MissingID++
		case v < badTimeRate:
			rows[i].Time = "not-a-timestamp"
			stats.BadTimeRows++
		case v < duplicateIDRate:
			if i == 0 {
				continue
			}
			prev := rows[i-1]
			// Only copy an id that will survive normalization, so the
			// duplicate is guaranteed to be the dropped occurrence.
			if prev.ID == "" || prev.Time == "not-a-timestamp" {
				continue
			}
			rows[i].ID = prev.ID
			stats.DuplicateIDs++
		}
	}
}
