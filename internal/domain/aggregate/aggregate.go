// Package aggregate derives chart-ready summaries from a filtered set of
// earthquake rows. Every function is pure: identical input yields identical
// output, grouped results are sorted by key, and empty input produces empty
// series with null KPIs rather than an error.
package aggregate

import (
	"sort"

	"github.com/quakescope/quakescope/internal/domain/filter"
	"github.com/quakescope/quakescope/internal/domain/model"
)

// dayLayout buckets timestamps into UTC calendar days. Lexical order on the
// formatted string is chronological order.
const dayLayout = "2006-01-02"

// DayCount is one point of the daily event-count series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DayMean is one point of the daily mean-magnitude series.
type DayMean struct {
	Date string  `json:"date"`
	Mean float64 `json:"mean"`
}

// Bin is one fixed-width magnitude histogram bin. The final bin of a
// histogram is right-inclusive so the observed maximum is always counted.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BoxStats are five-number box-plot statistics over a value slice.
// Quartiles interpolate linearly between closest ranks.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// RegionDepths carries one region's measured depths in row order plus the
// box statistics the distribution tab plots.
type RegionDepths struct {
	Region string    `json:"region"`
	Depths []float64 `json:"depths"`
	Stats  BoxStats  `json:"stats"`
}

// MagDepthPoint is one magnitude-vs-depth scatter point. Only rows with
// both measurements present produce a point.
type MagDepthPoint struct {
	Magnitude float64 `json:"magnitude"`
	Depth     float64 `json:"depth"`
	Region    string  `json:"region"`
}

// KPIs are the headline numbers above the charts. Float fields are nil,
// and serialize as JSON null, when no surviving row carries the
// measurement.
type KPIs struct {
	Count         int      `json:"count"`
	MeanMagnitude *float64 `json:"mean_magnitude"`
	MaxMagnitude  *float64 `json:"max_magnitude"`
	MeanDepth     *float64 `json:"mean_depth"`
	MedianDepth   *float64 `json:"median_depth"`
}

// Result is everything one pipeline run produces: the filtered rows and
// every aggregate the dashboard renders from them.
type Result struct {
	Rows          []model.Quake   `json:"rows"`
	KPIs          KPIs            `json:"kpis"`
	DailyCounts   []DayCount      `json:"daily_counts"`
	DailyMeans    []DayMean       `json:"daily_mean_magnitude"`
	Histogram     []Bin           `json:"magnitude_histogram"`
	DepthByRegion []RegionDepths  `json:"depth_by_region"`
	MagDepth      []MagDepthPoint `json:"magnitude_depth"`
}

// Apply runs the whole pipeline once: select the rows matching the
// criteria, then compute every aggregate from that subset. bins is the
// magnitude histogram bin count.
func Apply(table *model.Table, c filter.Criteria, bins int) Result {
	rows := filter.Select(table, c)

	return Result{
		Rows:          rows,
		KPIs:          Summarize(rows),
		DailyCounts:   DailyCounts(rows),
		DailyMeans:    DailyMeanMagnitudes(rows),
		Histogram:     Histogram(rows, bins),
		DepthByRegion: DepthByRegion(rows),
		MagDepth:      MagnitudeDepthPairs(rows),
	}
}

// DailyCounts buckets rows into UTC days and counts them. Days with no
// rows are absent from the series, not zero-filled.
func DailyCounts(rows []model.Quake) []DayCount {
	counts := make(map[string]int)
	for i := range rows {
		counts[rows[i].Time.UTC().Format(dayLayout)]++
	}

	series := make([]DayCount, 0, len(counts))
	for _, date := range sortedStringKeys(counts) {
		series = append(series, DayCount{Date: date, Count: counts[date]})
	}

	return series
}

// DailyMeanMagnitudes averages non-nil magnitudes per UTC day. A day whose
// rows all lack magnitude is omitted, even if the count series has it.
func DailyMeanMagnitudes(rows []model.Quake) []DayMean {
	type acc struct {
		sum float64
		n   int
	}

	byDay := make(map[string]acc)
	for i := range rows {
		if rows[i].Magnitude == nil {
			continue
		}
		date := rows[i].Time.UTC().Format(dayLayout)
		a := byDay[date]
		a.sum += *rows[i].Magnitude
		a.n++
		byDay[date] = a
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := make([]DayMean, 0, len(dates))
	for _, date := range dates {
		a := byDay[date]
		series = append(series, DayMean{Date: date, Mean: a.sum / float64(a.n)})
	}

	return series
}

// Histogram distributes non-nil magnitudes into fixed-width bins spanning
// the observed filtered range. A degenerate range (every value equal)
// collapses to a single bin; the final bin is right-inclusive.
func Histogram(rows []model.Quake, bins int) []Bin {
	if bins < 1 {
		bins = 1
	}

	values := make([]float64, 0, len(rows))
	for i := range rows {
		if rows[i].Magnitude != nil {
			values = append(values, *rows[i].Magnitude)
		}
	}
	if len(values) == 0 {
		return []Bin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}

	return out
}

// DepthByRegion groups non-nil depths by region, alphabetically, keeping
// each region's values in row order. Regions with no measured depth are
// omitted: there is nothing to plot for them.
func DepthByRegion(rows []model.Quake) []RegionDepths {
	byRegion := make(map[string][]float64)
	for i := range rows {
		if rows[i].Depth == nil {
			continue
		}
		byRegion[rows[i].Region] = append(byRegion[rows[i].Region], *rows[i].Depth)
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	out := make([]RegionDepths, 0, len(regions))
	for _, region := range regions {
		depths := byRegion[region]
		out = append(out, RegionDepths{
			Region: region,
			Depths: depths,
			Stats:  NewBoxStats(depths),
		})
	}

	return out
}

// MagnitudeDepthPairs returns the scatter points for rows carrying both
// measurements, in row order.
func MagnitudeDepthPairs(rows []model.Quake) []MagDepthPoint {
	out := make([]MagDepthPoint, 0, len(rows))
	for i := range rows {
		if rows[i].Magnitude == nil || rows[i].Depth == nil {
			continue
		}
		out = append(out, MagDepthPoint{
			Magnitude: *rows[i].Magnitude,
			Depth:     *rows[i].Depth,
			Region:    rows[i].Region,
		})
	}

	return out
}

// Summarize computes the KPI strip for a row subset. Count always reflects
// the subset size; the float KPIs stay nil when no row carries the
// respective measurement.
func Summarize(rows []model.Quake) KPIs {
	k := KPIs{Count: len(rows)}

	var mags, depths []float64
	for i := range rows {
		if rows[i].Magnitude != nil {
			mags = append(mags, *rows[i].Magnitude)
		}
		if rows[i].Depth != nil {
			depths = append(depths, *rows[i].Depth)
		}
	}

	if len(mags) > 0 {
		m := mean(mags)
		k.MeanMagnitude = &m

		max := mags[0]
		for _, v := range mags[1:] {
			if v > max {
				max = v
			}
		}
		maxCopy := max
		k.MaxMagnitude = &maxCopy
	}

	if len(depths) > 0 {
		m := mean(depths)
		k.MeanDepth = &m

		sorted := append([]float64(nil), depths...)
		sort.Float64s(sorted)
		med := quantile(sorted, 0.5)
		k.MedianDepth = &med
	}

	return k
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
