package movies

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptline/core"
	"promptline/executor"
)

// recordingMonitor captures every loader callback for assertions. The loader
// is fire-and-forget, so tests use ProcessedCount as the completion signal.
type recordingMonitor struct {
	mu            sync.Mutex
	correlationID string
	skippedLines  []int
	dispatched    []string
	failures      map[string][]string
	processed     []string
	accepted      int
	skipped       int
	completed     bool
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{failures: make(map[string][]string)}
}

func (m *recordingMonitor) RunStarted(correlationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.correlationID = correlationID
}

func (m *recordingMonitor) RecordSkipped(line int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skippedLines = append(m.skippedLines, line)
}

func (m *recordingMonitor) RecordDispatched(movie *core.Movie) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatched = append(m.dispatched, movie.ID)
}

func (m *recordingMonitor) ProcessorFailed(movieID, processor string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[movieID] = append(m.failures[movieID], processor)
}

func (m *recordingMonitor) RecordProcessed(movieID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = append(m.processed, movieID)
}

func (m *recordingMonitor) RunCompleted(accepted, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = accepted
	m.skipped = skipped
	m.completed = true
}

func (m *recordingMonitor) ProcessedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processed)
}

func (m *recordingMonitor) FailedProcessors(movieID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.failures[movieID]...)
}

// funcProcessor adapts a function to the Processor interface.
type funcProcessor struct {
	name string
	fn   func(ctx context.Context, movie *core.Movie) error
}

func (p *funcProcessor) Name() string { return p.name }

func (p *funcProcessor) Process(ctx context.Context, movie *core.Movie) error {
	return p.fn(ctx, movie)
}

func setupPool(t *testing.T) *executor.Pool {
	t.Helper()

	pool, err := executor.NewPool(4)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

const datasetHeader = "id\ttitle\tgenres\tlanguage\toverview\tpopularity\tcompanies\treleased\trevenue\truntime\tstatus\ttagline\tvotes\taverage\tbudget\tcredits"

// tsvLine builds one dataset line with the full 16-column layout.
func tsvLine(id, title, genres, overview, released, credits string) string {
	fields := make([]string, 16)
	fields[0] = id
	fields[1] = title
	fields[2] = genres
	fields[4] = overview
	fields[7] = released
	fields[15] = credits
	return strings.Join(fields, "\t")
}

func dataset(lines ...string) *strings.Reader {
	return strings.NewReader(datasetHeader + "\n" + strings.Join(lines, "\n") + "\n")
}

func waitProcessed(t *testing.T, monitor *recordingMonitor, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return monitor.ProcessedCount() == want
	}, 2*time.Second, 10*time.Millisecond, "offloaded processing did not finish")
}

func TestLoadDispatchesAcceptedRecords(t *testing.T) {
	pool := setupPool(t)
	monitor := newRecordingMonitor()

	var mu sync.Mutex
	seen := make(map[string]string)
	proc := &funcProcessor{name: "collect", fn: func(ctx context.Context, movie *core.Movie) error {
		mu.Lock()
		defer mu.Unlock()
		seen[movie.ID] = movie.Title
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{proc}, WithMonitor(monitor))
	require.NoError(t, err)

	accepted, err := loader.Load(context.Background(), dataset(
		tsvLine("11", "Arrival", "Drama-ScienceFiction", "A linguist decodes an alien language.", "2016-11-11", "Amy Adams-Jeremy Renner"),
		tsvLine("12", "Heat", "Crime-Thriller", "A thief and a detective circle each other.", "1995-12-15", ""),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)

	waitProcessed(t, monitor, 2)
	assert.Equal(t, map[string]string{"11": "Arrival", "12": "Heat"}, seen)
	assert.Equal(t, []string{"11", "12"}, monitor.dispatched)
	assert.NotEmpty(t, monitor.correlationID)
	assert.True(t, monitor.completed)
	assert.Equal(t, 2, monitor.accepted)
}

func TestLoadParsesAllFields(t *testing.T) {
	pool := setupPool(t)
	monitor := newRecordingMonitor()

	var mu sync.Mutex
	var got *core.Movie
	proc := &funcProcessor{name: "capture", fn: func(ctx context.Context, movie *core.Movie) error {
		mu.Lock()
		defer mu.Unlock()
		got = movie
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{proc}, WithMonitor(monitor))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), dataset(
		tsvLine("603", "The Matrix", "Action-ScienceFiction", "A hacker learns reality is simulated.", "1999-03-31", "Keanu Reeves-Carrie-Anne Moss"),
	))
	require.NoError(t, err)
	waitProcessed(t, monitor, 1)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, "603", got.ID)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, []string{"Action", "ScienceFiction"}, got.Genres)
	assert.Equal(t, "A hacker learns reality is simulated.", got.Overview)
	assert.Equal(t, time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC), got.ReleaseDate)
	// Dash-splitting is blind: hyphenated names split too. The dataset
	// encodes its lists that way and the trade-off is accepted.
	assert.Equal(t, []string{"Keanu Reeves", "Carrie", "Anne Moss"}, got.Credits)
}

func TestLoadSkipsRecordsWithoutOverview(t *testing.T) {
	pool := setupPool(t)
	monitor := newRecordingMonitor()
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{proc}, WithMonitor(monitor))
	require.NoError(t, err)

	// The second record has no overview AND a bogus date: the skip must win,
	// because overview is checked before the date is parsed.
	accepted, err := loader.Load(context.Background(), dataset(
		tsvLine("1", "Kept", "Drama", "Has an overview.", "2020-01-01", ""),
		tsvLine("2", "Dropped", "Drama", "", "not-a-date", ""),
		tsvLine("3", "Also Kept", "Drama", "Another overview.", "2021-06-30", ""),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
	assert.Equal(t, []int{3}, monitor.skippedLines, "header is line 1, skipped record is line 3")

	waitProcessed(t, monitor, 2)
	assert.Equal(t, 1, monitor.skipped)
}

func TestLoadFailsOnMalformedLine(t *testing.T) {
	pool := setupPool(t)
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{proc})
	require.NoError(t, err)

	accepted, err := loader.Load(context.Background(), dataset(
		tsvLine("1", "Fine", "Drama", "Good record.", "2020-01-01", ""),
		tsvLine("2", "Broken", "Drama", "Has overview but bad date.", "01/02/2020", ""),
		tsvLine("3", "Never Reached", "Drama", "After the bad line.", "2022-05-05", ""),
	))
	require.Error(t, err)

	var malformed *MalformedSourceError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 3, malformed.Line)
	assert.Equal(t, 1, accepted, "records before the malformed line were already dispatched")
}

func TestLoadFailsOnTruncatedLine(t *testing.T) {
	pool := setupPool(t)
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{proc})
	require.NoError(t, err)

	// A line with too few columns to even carry an overview is a schema
	// mismatch, not a skippable empty-overview record.
	accepted, err := loader.Load(context.Background(), dataset(
		"1\tTruncated\tDrama",
	))
	require.Error(t, err)

	var malformed *MalformedSourceError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
	assert.Zero(t, accepted)
}

func TestLoadIsolatesProcessorFailures(t *testing.T) {
	pool := setupPool(t)
	monitor := newRecordingMonitor()

	failing := &funcProcessor{name: "flaky", fn: func(ctx context.Context, movie *core.Movie) error {
		if movie.ID == "2" {
			return errors.New("index unavailable")
		}
		return nil
	}}

	var mu sync.Mutex
	var downstream []string
	second := &funcProcessor{name: "downstream", fn: func(ctx context.Context, movie *core.Movie) error {
		mu.Lock()
		defer mu.Unlock()
		downstream = append(downstream, movie.ID)
		return nil
	}}

	loader, err := NewLoader(pool, []Processor{failing, second}, WithMonitor(monitor))
	require.NoError(t, err)

	accepted, err := loader.Load(context.Background(), dataset(
		tsvLine("1", "One", "Drama", "First overview.", "2020-01-01", ""),
		tsvLine("2", "Two", "Drama", "Second overview.", "2020-02-02", ""),
		tsvLine("3", "Three", "Drama", "Third overview.", "2020-03-03", ""),
	))
	require.NoError(t, err)
	assert.Equal(t, 3, accepted)

	waitProcessed(t, monitor, 3)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"1", "2", "3"}, downstream,
		"a failing processor must not block later processors for the same record")
	assert.Equal(t, []string{"flaky"}, monitor.FailedProcessors("2"))
	assert.Empty(t, monitor.FailedProcessors("1"))
}

func TestLoadRunsProcessorsInRegistrationOrder(t *testing.T) {
	pool := setupPool(t)
	monitor := newRecordingMonitor()

	var mu sync.Mutex
	var order []string
	mark := func(name string) *funcProcessor {
		return &funcProcessor{name: name, fn: func(ctx context.Context, movie *core.Movie) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}}
	}

	loader, err := NewLoader(pool, []Processor{mark("first"), mark("second"), mark("third")}, WithMonitor(monitor))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), dataset(
		tsvLine("1", "Only", "Drama", "The single record.", "2020-01-01", ""),
	))
	require.NoError(t, err)
	waitProcessed(t, monitor, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestLoadEmptySource(t *testing.T) {
	pool := setupPool(t)
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}
	loader, err := NewLoader(pool, []Processor{proc})
	require.NoError(t, err)

	t.Run("no content at all", func(t *testing.T) {
		accepted, err := loader.Load(context.Background(), strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, accepted)
	})

	t.Run("header only", func(t *testing.T) {
		accepted, err := loader.Load(context.Background(), strings.NewReader(datasetHeader+"\n"))
		require.NoError(t, err)
		assert.Zero(t, accepted)
	})
}

func TestNewLoaderValidation(t *testing.T) {
	pool := setupPool(t)
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}

	_, err := NewLoader(nil, []Processor{proc})
	assert.ErrorIs(t, err, ErrPoolRequired)

	_, err = NewLoader(pool, nil)
	assert.ErrorIs(t, err, ErrProcessorsRequired)
}

func TestLoadHonorsCancellation(t *testing.T) {
	pool := setupPool(t)
	proc := &funcProcessor{name: "noop", fn: func(ctx context.Context, movie *core.Movie) error {
		return nil
	}}
	loader, err := NewLoader(pool, []Processor{proc})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = loader.Load(ctx, dataset(
		tsvLine("1", "One", "Drama", "First overview.", "2020-01-01", ""),
	))
	assert.ErrorIs(t, err, context.Canceled)
}
