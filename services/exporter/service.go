package exporter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aulareport/lib/scrapers/moodle/core"
	"aulareport/lib/scrapers/moodle/feedback"
	"aulareport/lib/scrapers/moodle/grading"
	"aulareport/lib/timezone"
	"aulareport/services/exporter/sink"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/exporter")

// pause between deliverable fetches, a courtesy to the platform rather
// than a correctness requirement
const deliverablePacing = time.Second * 2

type Service struct {
	config Config
	core   *core.Client
	sink   sink.Sink
}

func NewService(config Config, coreClient *core.Client, out sink.Sink) *Service {
	return &Service{
		config: config,
		core:   coreClient,
		sink:   out,
	}
}

// RunSummary describes what one run actually published.
type RunSummary struct {
	Stamp                 time.Time
	SurveyRows            int
	SurveyPublished       bool
	DeliverableRows       int
	DeliverablesPublished bool
	// labels of deliverables whose page could not be fetched
	Skipped []string
}

// Run executes one full export: authenticate, fetch the roster, then
// process whichever of the survey and deliverable sources are
// configured. Per-source "no data" degrades to skipping that publish;
// authentication and roster failures abort the run.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	ctx, span := tracer.Start(ctx, "service:Run")
	defer span.End()

	summary := RunSummary{Stamp: timezone.Now()}

	err := s.core.LoginUsernamePassword(ctx, s.config.Moodle.Username, s.config.Moodle.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return summary, err
	}
	slog.InfoContext(ctx, "logged in", "base_url", s.config.Moodle.BaseUrl, "username", s.config.Moodle.Username)

	roster, err := FetchRoster(ctx, s.core, s.config.CourseId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roster fetch failed")
		return summary, err
	}
	slog.InfoContext(ctx, "fetched roster", "course_id", s.config.CourseId, "participants", len(roster))

	if s.config.Survey != nil {
		err = s.runSurvey(ctx, roster, &summary)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "survey export failed")
			return summary, err
		}
	}

	if s.config.Deliverables != nil {
		err = s.runDeliverables(ctx, roster, &summary)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "deliverable export failed")
			return summary, err
		}
	}

	if s.config.Smtp != nil {
		err = s.sendRunSummary(ctx, summary)
		if err != nil {
			// the data is already published, a lost email is not
			// worth failing the run over
			slog.WarnContext(ctx, "failed to send run summary", "err", err)
		}
	}

	return summary, nil
}

func (s *Service) runSurvey(ctx context.Context, roster []User, summary *RunSummary) error {
	ctx, span := tracer.Start(ctx, "service:runSurvey")
	defer span.End()

	span.SetAttributes(attribute.String("survey_id", s.config.Survey.Id))

	client := feedback.NewClient(s.core)
	csvText, err := client.Export(ctx, s.config.Survey.Id)
	if err != nil {
		return err
	}

	responses, err := feedback.ParseCSV(csvText)
	if errors.Is(err, feedback.ErrNoData) {
		// distinguishable from a failed fetch: the export came back
		// but holds nothing we can use
		slog.WarnContext(ctx, "survey export has no usable data", "survey_id", s.config.Survey.Id, "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "parsed survey responses", "count", len(responses))

	table := BuildSurveyTable(ReconcileSurvey(roster, responses))
	if len(table) == 0 {
		slog.InfoContext(ctx, "nothing to publish for survey", "survey_id", s.config.Survey.Id)
		return nil
	}

	err = s.sink.Publish(ctx, s.config.Survey.Worksheet, table, summary.Stamp)
	if err != nil {
		return err
	}

	summary.SurveyRows = len(table) - 1
	summary.SurveyPublished = true
	slog.InfoContext(ctx, "published survey table", "worksheet", s.config.Survey.Worksheet, "rows", summary.SurveyRows)
	return nil
}

func (s *Service) runDeliverables(ctx context.Context, roster []User, summary *RunSummary) error {
	ctx, span := tracer.Start(ctx, "service:runDeliverables")
	defer span.End()

	client := grading.NewClient(s.core)
	set := NewDeliverableSet()

	for i, item := range s.config.Deliverables.Items {
		if i > 0 {
			select {
			case <-time.After(deliverablePacing):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		statuses, err := client.Statuses(ctx, item.Id)
		if errors.Is(err, grading.ErrNoData) {
			slog.WarnContext(ctx, "grading page has no submissions table", "id", item.Id, "label", item.Label)
			set.Add(item.Label, nil)
			continue
		}
		if err != nil {
			// already retried inside the client; this deliverable is
			// lost for the run but the rest still publish
			slog.WarnContext(ctx, "skipping deliverable", "id", item.Id, "label", item.Label, "err", err)
			summary.Skipped = append(summary.Skipped, item.Label)
			continue
		}
		slog.InfoContext(ctx, "parsed grading table", "label", item.Label, "rows", len(statuses))
		set.Add(item.Label, statuses)
	}

	table := BuildDeliverableTable(set, set.Records(roster))
	if len(table) == 0 {
		slog.InfoContext(ctx, "nothing to publish for deliverables")
		return nil
	}

	err := s.sink.Publish(ctx, s.config.Deliverables.Worksheet, table, summary.Stamp)
	if err != nil {
		return err
	}

	summary.DeliverableRows = len(table) - 1
	summary.DeliverablesPublished = true
	slog.InfoContext(ctx, "published deliverable table", "worksheet", s.config.Deliverables.Worksheet, "rows", summary.DeliverableRows)
	return nil
}
