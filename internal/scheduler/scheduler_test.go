package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"CryptoRelay/internal/collector"
	"CryptoRelay/internal/model"
	"CryptoRelay/internal/publisher"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var start = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// fakeClock is advanced manually by tests.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestScheduler(t *testing.T, clock *fakeClock) *Scheduler {
	s := NewScheduler(time.Second, zaptest.NewLogger(t))
	s.Now = clock.Now
	return s
}

func countingJob(calls *int, outcome model.Outcome, err error) Job {
	return func(_ context.Context) (model.Outcome, error) {
		*calls++
		return outcome, err
	}
}

func TestRegister_FirstDueOneIntervalAhead(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)

	require.NoError(t, s.Register(JobSheetRefresh, "@every 5m", countingJob(new(int), model.OutcomeSheetPublished, nil)))
	require.NoError(t, s.Register(JobReportRefresh, "@every 24h", countingJob(new(int), model.OutcomeReportPublished, nil)))

	require.Len(t, s.Entries, 2)
	assert.Equal(t, start.Add(5*time.Minute), s.Entries[0].NextDue)
	assert.Equal(t, start.Add(24*time.Hour), s.Entries[1].NextDue)
}

func TestRegister_Errors(t *testing.T) {
	s := newTestScheduler(t, &fakeClock{now: start})
	assert.Error(t, s.Register(JobSheetRefresh, "every five minutes", nil))

	require.NoError(t, s.Register(JobSheetRefresh, "@every 5m", nil))
	assert.Error(t, s.Register(JobSheetRefresh, "@every 10m", nil))
}

func TestRunPending_RunsDueEntriesAndReschedules(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)
	var sheetCalls, reportCalls int
	require.NoError(t, s.Register(JobSheetRefresh, "@every 5m", countingJob(&sheetCalls, model.OutcomeSheetPublished, nil)))
	require.NoError(t, s.Register(JobReportRefresh, "@every 24h", countingJob(&reportCalls, model.OutcomeReportPublished, nil)))

	clock.now = start.Add(4 * time.Minute)
	s.RunPending(context.Background(), clock.now)
	assert.Equal(t, 0, sheetCalls)

	clock.now = start.Add(5 * time.Minute)
	s.RunPending(context.Background(), clock.now)
	assert.Equal(t, 1, sheetCalls)
	assert.Equal(t, 0, reportCalls)
	assert.Equal(t, start.Add(10*time.Minute), s.Entries[0].NextDue)

	// The same tick again must not re-run the entry.
	s.RunPending(context.Background(), clock.now)
	assert.Equal(t, 1, sheetCalls)

	clock.now = start.Add(24 * time.Hour)
	s.RunPending(context.Background(), clock.now)
	assert.Equal(t, 2, sheetCalls, "a late tick runs an overdue entry once")
	assert.Equal(t, 1, reportCalls)
	assert.Equal(t, start.Add(48*time.Hour), s.Entries[1].NextDue)
}

func TestRunPending_SlowActionDelaysReschedule(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)
	slow := func(_ context.Context) (model.Outcome, error) {
		clock.now = clock.now.Add(90 * time.Second)
		return model.OutcomeSheetPublished, nil
	}
	require.NoError(t, s.Register(JobSheetRefresh, "@every 5m", slow))

	clock.now = start.Add(5 * time.Minute)
	s.RunPending(context.Background(), clock.now)
	assert.Equal(t, start.Add(5*time.Minute+90*time.Second+5*time.Minute), s.Entries[0].NextDue)
}

func TestRunPending_FailureDoesNotStopOtherEntries(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)
	var reportCalls int
	require.NoError(t, s.Register(JobSheetRefresh, "@every 1m", func(_ context.Context) (model.Outcome, error) {
		panic("sheet exploded")
	}))
	require.NoError(t, s.Register(JobReportRefresh, "@every 1m",
		countingJob(&reportCalls, model.OutcomeSkipped, model.ErrFetchFailed)))

	clock.now = start.Add(time.Minute)
	assert.NotPanics(t, func() { s.RunPending(context.Background(), clock.now) })
	assert.Equal(t, 1, reportCalls)
	assert.Equal(t, start.Add(2*time.Minute), s.Entries[0].NextDue)
	assert.Equal(t, start.Add(2*time.Minute), s.Entries[1].NextDue)
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) SendWithRetry(_ context.Context, text string, _ int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, text)
	return nil
}

func TestDispatch_AlertsOnFailureOnly(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)
	alerter := &recordingAlerter{}
	s.Alerter = alerter

	require.NoError(t, s.Register(JobSheetRefresh, "@every 1m",
		countingJob(new(int), model.OutcomeSkipped, model.ErrEmptySnapshot)))
	require.NoError(t, s.Register(JobReportRefresh, "@every 1m",
		countingJob(new(int), model.OutcomeSkipped, errors.Join(model.ErrPublishFailed, errors.New("403")))))

	s.RunAllNow(context.Background())
	require.Len(t, alerter.messages, 1)
	assert.Contains(t, alerter.messages[0], "report refresh failed")
}

func TestHandleCommand_QueuesTriggers(t *testing.T) {
	s := newTestScheduler(t, &fakeClock{now: start})

	assert.Equal(t, "sheet refresh queued", s.HandleCommand("/sheet"))
	assert.Equal(t, "report refresh queued", s.HandleCommand("/report"))
	assert.True(t, strings.HasPrefix(s.HandleCommand("hello"), "Available commands"))
	assert.Equal(t, JobSheetRefresh, <-s.triggers)
	assert.Equal(t, JobReportRefresh, <-s.triggers)

	for i := 0; i < cap(s.triggers); i++ {
		require.True(t, s.Trigger(JobSheetRefresh))
	}
	assert.False(t, s.Trigger(JobSheetRefresh))
}

func TestRun_DrainsTriggersAndStopsOnCancel(t *testing.T) {
	s := NewScheduler(time.Hour, zaptest.NewLogger(t))
	ran := make(chan JobKind, 1)
	require.NoError(t, s.Register(JobReportRefresh, "@every 24h", func(_ context.Context) (model.Outcome, error) {
		ran <- JobReportRefresh
		return model.OutcomeReportPublished, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.True(t, s.Trigger(JobReportRefresh))
	select {
	case kind := <-ran:
		assert.Equal(t, JobReportRefresh, kind)
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}
	assert.True(t, s.Entries[0].NextDue.After(time.Now().Add(23*time.Hour)), "manual run keeps the schedule")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

// End-to-end wiring over in-memory backends.

type memorySheet struct{ grid [][]string }

func (m *memorySheet) Clear(_ context.Context) error {
	m.grid = nil
	return nil
}

func (m *memorySheet) Write(_ context.Context, rows [][]string) error {
	m.grid = append(m.grid, rows...)
	return nil
}

type memoryDoc struct{ body string }

func (m *memoryDoc) Title(_ context.Context, _ string) (string, error) { return "Report", nil }

func (m *memoryDoc) InsertText(_ context.Context, _ string, index int64, text string) error {
	m.body = m.body[:index-1] + text + m.body[index-1:]
	return nil
}

func scenarioAssets() []model.AssetSnapshot {
	return []model.AssetSnapshot{
		{
			Name:                     "Bitcoin",
			Symbol:                   "btc",
			CurrentPrice:             decimal.NewFromInt(50000),
			MarketCap:                decimal.NewFromInt(900000000000),
			TotalVolume:              decimal.NewFromInt(30000000000),
			PriceChangePercentage24h: decimal.RequireFromString("2.345"),
		},
		{
			Name:                     "Ether",
			Symbol:                   "eth",
			CurrentPrice:             decimal.NewFromInt(3000),
			MarketCap:                decimal.NewFromInt(400000000000),
			TotalVolume:              decimal.NewFromInt(10000000000),
			PriceChangePercentage24h: decimal.RequireFromString("-1.2"),
		},
	}
}

func newTestJobs(t *testing.T, fetcher collector.Fetcher, sheet *memorySheet, doc *memoryDoc) *Jobs {
	return &Jobs{
		Collector:  collector.NewCollector(fetcher),
		Sheet:      publisher.NewSheetPublisher(sheet),
		Report:     publisher.NewReportPublisher(doc, zaptest.NewLogger(t)),
		DocumentID: "doc",
		Now:        func() time.Time { return time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local) },
	}
}

func TestJobs_EndToEndScenario(t *testing.T) {
	sheet, doc := &memorySheet{}, &memoryDoc{}
	jobs := newTestJobs(t, &collector.MockFetcher{Assets: scenarioAssets()}, sheet, doc)

	outcome, err := jobs.RefreshSheet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSheetPublished, outcome)
	require.Len(t, sheet.grid, 3)
	assert.Equal(t, []string{"Bitcoin", "BTC", "$50,000.00", "$900,000,000,000", "$30,000,000,000", "2.35%"}, sheet.grid[1])
	assert.Equal(t, []string{"Ether", "ETH", "$3,000.00", "$400,000,000,000", "$10,000,000,000", "-1.20%"}, sheet.grid[2])

	outcome, err = jobs.RefreshReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeReportPublished, outcome)
	assert.Contains(t, doc.body, "Generated on: 2026-10-18 08:00:00")
	assert.Contains(t, doc.body, "Bitcoin - Market Cap: $900,000,000,000\nEther - Market Cap: $400,000,000,000\n")
	assert.Contains(t, doc.body, "Average Price of Top 2 Cryptocurrencies: $26500.00")
	assert.Contains(t, doc.body, "Highest 24h Change: 2.35%")
	assert.Contains(t, doc.body, "Lowest 24h Change: -1.20%")
}

func TestJobs_FetchFailureSkipsCycle(t *testing.T) {
	prior := [][]string{{"keep"}}
	sheet, doc := &memorySheet{grid: prior}, &memoryDoc{body: "old"}
	jobs := newTestJobs(t, &collector.MockFetcher{Err: errors.New("dial tcp: connection refused")}, sheet, doc)

	outcome, err := jobs.RefreshSheet(context.Background())
	assert.ErrorIs(t, err, model.ErrFetchFailed)
	assert.Equal(t, model.OutcomeSkipped, outcome)
	assert.Equal(t, prior, sheet.grid)

	_, err = jobs.RefreshReport(context.Background())
	assert.ErrorIs(t, err, model.ErrFetchFailed)
	assert.Equal(t, "old", doc.body)
}

func TestJobs_EmptySnapshotSkipsReport(t *testing.T) {
	doc := &memoryDoc{body: "old"}
	jobs := newTestJobs(t, &collector.MockFetcher{}, &memorySheet{}, doc)

	outcome, err := jobs.RefreshReport(context.Background())
	assert.ErrorIs(t, err, model.ErrEmptySnapshot)
	assert.Equal(t, model.OutcomeSkipped, outcome)
	assert.Equal(t, "old", doc.body)
}

func TestScheduler_FetchFailureTickContinues(t *testing.T) {
	clock := &fakeClock{now: start}
	s := newTestScheduler(t, clock)
	fetcher := &collector.MockFetcher{Err: errors.New("network unreachable")}
	jobs := newTestJobs(t, fetcher, &memorySheet{}, &memoryDoc{})
	require.NoError(t, s.RegisterAll(jobs, "@every 5m", "@every 24h"))

	clock.now = start.Add(5 * time.Minute)
	s.RunPending(context.Background(), clock.now)

	fetcher.Err = nil
	fetcher.Assets = scenarioAssets()
	clock.now = start.Add(10 * time.Minute)
	s.RunPending(context.Background(), clock.now)

	assert.Equal(t, 2, fetcher.Calls)
	assert.Equal(t, start.Add(15*time.Minute), s.Entries[0].NextDue)
}
