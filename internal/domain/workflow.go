package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/striebwj/coverage-checker/internal/adapter"
	"github.com/striebwj/coverage-checker/internal/controller"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// CheckArgs contains the arguments for a check run.
type CheckArgs struct {
	Reports     []m.ReportConfig
	PullRequest int
}

// UpdateArgs contains the arguments for an update run.
type UpdateArgs struct {
	Reports []m.ReportConfig
}

// StatusArgs contains the arguments for a local status render.
type StatusArgs struct {
	Reports []m.ReportConfig
}

// HistoryArgs contains the arguments for browsing the persisted history.
type HistoryArgs struct {
	Reports []m.ReportConfig
}

// Workflow defines the interface for the coverage gate workflows.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	Update(ctx context.Context, args UpdateArgs) error
	Status(ctx context.Context, args StatusArgs) error
	History(ctx context.Context, args HistoryArgs) error
}

type workflow struct {
	adapter.ReportParser
	adapter.StoreOpener
	adapter.BadgeClient
	adapter.Notifier
	controller.UI

	baselines adapter.ObjectGetter
	now       func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	parser adapter.ReportParser,
	baselines adapter.ObjectGetter,
	opener adapter.StoreOpener,
	badges adapter.BadgeClient,
	notifier adapter.Notifier,
	ui controller.UI,
) Workflow {
	return &workflow{
		ReportParser: parser,
		StoreOpener:  opener,
		BadgeClient:  badges,
		Notifier:     notifier,
		UI:           ui,
		baselines:    baselines,
		now:          time.Now,
	}
}

// Check compares every configured report against its stored baseline, posts
// the combined result on the pull request, and fails the run when any
// comparison measured a drop. The comment is posted before the verdict is
// surfaced so a dropped gate still explains itself on the pull request.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	runID := uuid.NewString()
	log := slog.With("run", runID, "mode", "check")
	log.Info("starting coverage check", "reports", len(args.Reports), "pull_request", args.PullRequest)

	snapshots, err := ParseAll(w.ReportParser, args.Reports)
	if err != nil {
		log.Error("report aggregation failed", "error", err)
		return err
	}

	baselines := make(m.Snapshots, len(args.Reports))
	comparisons := make([]Comparison, 0, len(args.Reports)+1)

	for _, report := range args.Reports {
		baseline, err := w.loadBaseline(ctx, report.Label)
		if err != nil {
			log.Error("baseline fetch failed", "label", report.Label, "error", err)
			return err
		}

		baselines[report.Label] = baseline
		comparisons = append(comparisons, Compare(report.DisplayName(), baseline, snapshots[report.Label]))
	}

	// A single report is its own global figure; the extra section would just
	// repeat it.
	if len(args.Reports) > 1 {
		globalNew, err := SumCoverages(snapshots)
		if err != nil {
			return err
		}

		comparisons = append(comparisons, Compare("Global", sumBaselines(baselines), globalNew))
	}

	message := RenderComparisons(comparisons)

	if err := w.Upsert(ctx, args.PullRequest, message); err != nil {
		log.Error("posting comment failed", "error", err)
		return fmt.Errorf("%w: %s", ErrNotification, err)
	}

	if err := w.DisplayReport(ctx, message); err != nil {
		return err
	}

	if AnyFailed(comparisons) {
		log.Warn("coverage dropped below baseline")
		return ErrCoverageDropped
	}

	log.Info("coverage check passed")

	return nil
}

// Update publishes the current snapshots, badges and history ledger to the
// storage branch as one commit. The ledger is appended once per label and
// persisted once, after all appends.
func (w *workflow) Update(ctx context.Context, args UpdateArgs) error {
	runID := uuid.NewString()
	log := slog.With("run", runID, "mode", "update")
	log.Info("starting coverage update", "reports", len(args.Reports))

	snapshots, err := ParseAll(w.ReportParser, args.Reports)
	if err != nil {
		log.Error("report aggregation failed", "error", err)
		return err
	}

	store, err := w.Open(ctx)
	if err != nil {
		log.Error("opening storage branch failed", "error", err)
		return fmt.Errorf("%w: %s", ErrStoreWrite, err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing store failed", "error", err)
		}
	}()

	for _, report := range args.Reports {
		raw, err := json.Marshal(snapshots[report.Label])
		if err != nil {
			return fmt.Errorf("encode snapshot %q: %w", report.Label, err)
		}

		if err := store.Put(ctx, report.Label+".json", raw); err != nil {
			log.Error("writing snapshot failed", "label", report.Label, "error", err)
			return fmt.Errorf("%w: %s", ErrStoreWrite, err)
		}
	}

	for _, report := range args.Reports {
		if report.Badge == "" {
			continue
		}

		image, err := w.Fetch(ctx, report.DisplayName(), snapshots[report.Label].Coverage)
		if err != nil {
			log.Error("badge fetch failed", "label", report.Label, "error", err)
			return fmt.Errorf("%w: %s", ErrBadgeFetch, err)
		}

		if err := store.Put(ctx, report.Badge, image); err != nil {
			log.Error("writing badge failed", "label", report.Label, "error", err)
			return fmt.Errorf("%w: %s", ErrStoreWrite, err)
		}
	}

	ledger, err := LoadLedger(ctx, store)
	if err != nil {
		log.Error("loading history failed", "error", err)
		return err
	}

	// All appends of a run share one timestamp so the ledger reads as one
	// measurement event per run.
	at := w.now().UTC()
	for _, report := range args.Reports {
		ledger.Append(report.Label, snapshots[report.Label].Coverage, at)
	}

	if err := PersistLedger(ctx, store, ledger); err != nil {
		log.Error("persisting history failed", "error", err)
		return err
	}

	if err := store.CommitAndPush(ctx, fmt.Sprintf("coverage update %s", runID)); err != nil {
		log.Error("pushing storage branch failed", "error", err)
		return fmt.Errorf("%w: %s", ErrStoreWrite, err)
	}

	log.Info("pushed coverage update", "labels", len(args.Reports))

	return nil
}

// Status parses the configured reports locally and renders them, plus a
// global summary when more than one report is configured. No remote access.
func (w *workflow) Status(ctx context.Context, args StatusArgs) error {
	snapshots, err := ParseAll(w.ReportParser, args.Reports)
	if err != nil {
		return err
	}

	rows := make([]controller.StatusRow, 0, len(args.Reports)+1)
	for _, report := range args.Reports {
		rows = append(rows, controller.StatusRow{Name: report.DisplayName(), Snapshot: snapshots[report.Label]})
	}

	if len(args.Reports) > 1 {
		global, err := SumCoverages(snapshots)
		if err != nil {
			return err
		}

		rows = append(rows, controller.StatusRow{Name: "Global", Snapshot: global})
	}

	return w.DisplayStatus(ctx, rows)
}

// History reads the ledger and the latest stored snapshots and hands them to
// the UI. The reads are independent, so they fan out; this viewer is outside
// the ordering guarantees check and update runs rely on.
func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	var ledger m.Ledger

	latest := make([]m.Snapshot, len(args.Reports))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)

	group.Go(func() error {
		var err error
		ledger, err = LoadLedger(groupCtx, w.baselines)

		return err
	})

	for i, report := range args.Reports {
		group.Go(func() error {
			snapshot, err := w.loadBaseline(groupCtx, report.Label)
			if err != nil {
				return err
			}

			latest[i] = snapshot

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	rows := make([]controller.HistoryRow, 0, len(args.Reports))
	for i, report := range args.Reports {
		series := ledger[report.Label]
		rows = append(rows, controller.HistoryRow{
			Label:  report.Label,
			Name:   report.DisplayName(),
			Latest: latest[i],
			Series: series,
			Trend:  m.Trend(series),
		})
	}

	return w.DisplayHistory(ctx, rows)
}

// loadBaseline fetches the stored snapshot for label. An absent object is
// the "no baseline yet" case and yields the zero snapshot.
func (w *workflow) loadBaseline(ctx context.Context, label string) (m.Snapshot, error) {
	raw, err := w.baselines.Get(ctx, label+".json")
	if errors.Is(err, adapter.ErrObjectNotFound) {
		return m.Snapshot{}, nil
	}

	if err != nil {
		return m.Snapshot{}, fmt.Errorf("%w: %s", ErrBaselineFetch, err)
	}

	var snapshot m.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return m.Snapshot{}, fmt.Errorf("%w: decode baseline %q: %s", ErrBaselineFetch, label, err)
	}

	return snapshot, nil
}
