package compare

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ctaridership/internal/models"
	"github.com/lox/ctaridership/internal/resolve"
	"github.com/lox/ctaridership/internal/store/storetest"
)

type fakeSource struct {
	stations map[string][]models.Station
	daily    map[int64][]models.DailyCount
	finds    []string
	loads    []int64
}

func (f *fakeSource) FindStations(_ context.Context, pattern string) ([]models.Station, error) {
	f.finds = append(f.finds, pattern)
	return f.stations[pattern], nil
}

func (f *fakeSource) DailyRidership(_ context.Context, stationID int64, _ int) ([]models.DailyCount, error) {
	f.loads = append(f.loads, stationID)
	return f.daily[stationID], nil
}

func days(n int) []models.DailyCount {
	out := make([]models.DailyCount, n)
	for i := range out {
		out[i] = models.DailyCount{
			Date:   time.Date(2022, 1, i+1, 0, 0, 0, 0, time.UTC),
			Riders: int64(100 + i),
		}
	}
	return out
}

func indices(points []Point) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Index
	}
	return out
}

func TestPreview(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{4, []int{1, 2, 3, 4}},
		{10, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{11, []int{1, 2, 3, 4, 5, 7, 8, 9, 10, 11}},
		{360, []int{1, 2, 3, 4, 5, 356, 357, 358, 359, 360}},
		{365, []int{1, 2, 3, 4, 5, 361, 362, 363, 364, 365}},
	}

	for _, tt := range tests {
		s := NewSeries(models.Station{}, days(tt.n))
		got := indices(s.Preview())
		if tt.want == nil {
			assert.Empty(t, got, "n=%d", tt.n)
			continue
		}
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestPreview_NoDuplicates(t *testing.T) {
	for n := 0; n <= 30; n++ {
		s := NewSeries(models.Station{}, days(n))
		preview := s.Preview()

		lead := min(PreviewSize, n)
		want := min(n, 2*PreviewSize)
		require.Len(t, preview, want, "n=%d", n)

		seen := make(map[int]bool)
		for _, p := range preview {
			require.False(t, seen[p.Index], "n=%d index %d repeated", n, p.Index)
			seen[p.Index] = true
		}
		for i := 1; i <= lead; i++ {
			assert.True(t, seen[i], "n=%d missing leading %d", n, i)
			assert.True(t, seen[n-i+1], "n=%d missing trailing %d", n, n-i+1)
		}
	}
}

func TestNewSeries_OrdinalNotDayOfYear(t *testing.T) {
	counts := []models.DailyCount{
		{Date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), Riders: 10},
		{Date: time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC), Riders: 50},
		{Date: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), Riders: 60},
	}
	s := NewSeries(models.Station{Name: "Clark/Lake"}, counts)

	assert.Equal(t, []int{1, 2, 3}, indices(s.Points))
	assert.Equal(t, []float64{10, 50, 60}, s.Values())
	assert.Equal(t, 3, s.Len())
}

func TestCompare(t *testing.T) {
	a := models.Station{ID: 1, Name: "Clark/Lake"}
	b := models.Station{ID: 2, Name: "State/Lake"}
	src := &fakeSource{
		stations: map[string][]models.Station{"Clark%": {a}, "State%": {b}},
		daily:    map[int64][]models.DailyCount{1: days(360), 2: days(365)},
	}

	c, err := Compare(context.Background(), src, Request{First: "Clark%", Second: "State%", Year: 2022})
	require.NoError(t, err)

	assert.Equal(t, 2022, c.Year)
	assert.Equal(t, "Clark/Lake", c.First.Station.Name)
	assert.Equal(t, "State/Lake", c.Second.Station.Name)
	assert.Equal(t, 360, c.First.Len())
	assert.Equal(t, 365, c.Second.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 356, 357, 358, 359, 360}, indices(c.First.Preview()))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 361, 362, 363, 364, 365}, indices(c.Second.Preview()))
	assert.Len(t, c.Axis(), 360)
	assert.Equal(t, 1, c.Axis()[0])
	assert.Equal(t, []int64{1, 2}, src.loads)
}

func TestCompare_ResolvedFirstStation(t *testing.T) {
	a := models.Station{ID: 1, Name: "Clark/Lake"}
	b := models.Station{ID: 2, Name: "State/Lake"}
	src := &fakeSource{
		stations: map[string][]models.Station{"Clark%": {a}, "State%": {b}},
		daily:    map[int64][]models.DailyCount{1: days(3), 2: days(3)},
	}

	ctx := context.Background()
	first, err := Resolve(ctx, src, "Clark%", FirstSide)
	require.NoError(t, err)

	c, err := Compare(ctx, src, Request{First: "Clark%", FirstStation: &first, Second: "State%", Year: 2022})
	require.NoError(t, err)

	assert.Equal(t, []string{"Clark%", "State%"}, src.finds)
	assert.Equal(t, a, c.First.Station)
	assert.Equal(t, b, c.Second.Station)
}

func TestResolve_ErrorCarriesSide(t *testing.T) {
	src := &fakeSource{}

	_, err := Resolve(context.Background(), src, "Nowhere", FirstSide)
	var rerr *resolve.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, FirstSide, rerr.Side)
	assert.ErrorIs(t, err, resolve.ErrNotFound)
}

func TestCompare_FirstNotFoundSkipsSecond(t *testing.T) {
	src := &fakeSource{
		stations: map[string][]models.Station{"State%": {{ID: 2, Name: "State/Lake"}}},
	}

	_, err := Compare(context.Background(), src, Request{First: "Nowhere", Second: "State%", Year: 2022})
	require.ErrorIs(t, err, resolve.ErrNotFound)

	var rerr *resolve.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, FirstSide, rerr.Side)
	assert.Equal(t, []string{"Nowhere"}, src.finds)
	assert.Empty(t, src.loads)
}

func TestCompare_SecondAmbiguous(t *testing.T) {
	src := &fakeSource{
		stations: map[string][]models.Station{
			"Clark%": {{ID: 1, Name: "Clark/Lake"}},
			"%Lake":  {{ID: 1, Name: "Clark/Lake"}, {ID: 2, Name: "State/Lake"}},
		},
	}

	_, err := Compare(context.Background(), src, Request{First: "Clark%", Second: "%Lake", Year: 2022})
	require.ErrorIs(t, err, resolve.ErrAmbiguous)

	var rerr *resolve.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, SecondSide, rerr.Side)
	assert.Equal(t, 2, rerr.Candidates)
	assert.Empty(t, src.loads)
}

func TestCompare_EmptySeries(t *testing.T) {
	src := &fakeSource{
		stations: map[string][]models.Station{
			"Clark%": {{ID: 1, Name: "Clark/Lake"}},
			"State%": {{ID: 2, Name: "State/Lake"}},
		},
		daily: map[int64][]models.DailyCount{1: days(3)},
	}

	_, err := Compare(context.Background(), src, Request{First: "Clark%", Second: "State%", Year: 2022})
	require.ErrorIs(t, err, ErrEmptySeries)

	var serr *SeriesError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, SecondSide, serr.Side)
	assert.Equal(t, "station 2: State/Lake has no ridership in 2022", err.Error())
}

func TestCompare_MissingDatesStayPositional(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertStation(ctx, models.Station{ID: 1, Name: "Austin"}))
	require.NoError(t, st.UpsertStation(ctx, models.Station{ID: 2, Name: "Belmont"}))
	require.NoError(t, st.InsertRidership(ctx, storetest.Year(1, 2022, 365, 2, 3, 100, 200, 300)...))
	require.NoError(t, st.InsertRidership(ctx, storetest.Year(2, 2022, 365)...))

	c, err := Compare(ctx, st, Request{First: "Austin", Second: "Belmont", Year: 2022})
	require.NoError(t, err)

	assert.Equal(t, 360, c.First.Len())
	assert.Equal(t, 365, c.Second.Len())

	// Index 2 is 4 January for the first station and 2 January for the second.
	assert.Equal(t, time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC), c.First.Points[1].Date)
	assert.Equal(t, time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC), c.Second.Points[1].Date)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 356, 357, 358, 359, 360}, indices(c.First.Preview()))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 361, 362, 363, 364, 365}, indices(c.Second.Preview()))
}
