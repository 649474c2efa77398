package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mamadbah2/satisfaction/internal/config"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository/sheets"
	"github.com/mamadbah2/satisfaction/internal/service/reporting"
	"github.com/mamadbah2/satisfaction/internal/testutil"
	"github.com/mamadbah2/satisfaction/pkg/clients/notifier"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notifier.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg notifier.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

type fakeSheet struct {
	ranges []string
	rows   [][]interface{}
}

func (f *fakeSheet) AppendRows(_ context.Context, r string, rows [][]interface{}) error {
	f.ranges = append(f.ranges, r)
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeSheet) ClearRange(context.Context, string) error { return nil }

func newTestScheduler(store *testutil.MemoryStore, n notifier.Client, sheet sheets.Repository) *Scheduler {
	cfg := config.Config{
		Sheets:    config.SheetsConfig{SummaryRange: "Summary!A:I"},
		Reporting: config.ReportingConfig{DailyCron: "0 20 * * *", WeeklyCron: "0 20 * * 5"},
	}
	reportingSvc := reporting.NewService(store, time.UTC, locale.Lookup("en"), nil)
	s := NewScheduler(cfg, time.UTC, reportingSvc, n, sheet, nil)
	s.now = func() time.Time { return time.Date(2024, time.March, 2, 20, 0, 0, 0, time.UTC) }
	return s
}

func TestRunReport_SendsAndAppends(t *testing.T) {
	store := testutil.NewMemoryStore(models.VoteRecord{ID: 1, Mood: models.MoodSatisfied, Date: "02/03/2024", Time: "10:00:00"})
	n := &fakeNotifier{}
	sheet := &fakeSheet{}
	s := newTestScheduler(store, n, sheet)

	s.runReport("daily", s.reportingSvc.DailySummary)

	if len(n.msgs) != 1 || !strings.HasPrefix(n.msgs[0].Text, "Today (02/03/2024): Total 1.") {
		t.Fatalf("messages = %+v", n.msgs)
	}
	if n.msgs[0].Report == nil || n.msgs[0].Report.Summary.Total != 1 {
		t.Errorf("report payload = %+v", n.msgs[0].Report)
	}
	if len(sheet.rows) != 1 || sheet.ranges[0] != "Summary!A:I" {
		t.Errorf("sheet rows = %v in %v", sheet.rows, sheet.ranges)
	}
}

func TestRunReport_StoreFailureSkipsDelivery(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.ListErr = errors.New("offline")
	n := &fakeNotifier{}
	sheet := &fakeSheet{}
	s := newTestScheduler(store, n, sheet)

	s.runReport("weekly", s.reportingSvc.WeeklySummary)

	if len(n.msgs) != 0 || len(sheet.rows) != 0 {
		t.Errorf("delivered despite failure: %d messages, %d rows", len(n.msgs), len(sheet.rows))
	}
}

func TestRunReport_NotifierFailureStillAppends(t *testing.T) {
	n := &fakeNotifier{err: errors.New("webhook down")}
	sheet := &fakeSheet{}
	s := newTestScheduler(testutil.NewMemoryStore(), n, sheet)

	s.runReport("daily", s.reportingSvc.DailySummary)

	if len(sheet.rows) != 1 {
		t.Errorf("sheet rows = %d, want 1", len(sheet.rows))
	}
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(testutil.NewMemoryStore(), nil, nil)
	s.Start()
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
	s.Stop()
}
