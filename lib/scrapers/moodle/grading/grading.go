package grading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aulareport/lib/scrapers/moodle/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/moodle/grading")

const (
	fetchAttempts = 3
	fetchPacing   = time.Second * 2
)

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

func (c Client) fetchPage(ctx context.Context, assignId string) ([]byte, error) {
	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      assignId,
			"action":  "grading",
			"perpage": "-1",
		}).
		Get("/mod/assign/view.php")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("grading page returned status %d", res.StatusCode())
	}
	return res.Body(), nil
}

// Statuses fetches and parses the grading table of one assignment. The
// fetch is retried a fixed number of times with fixed pacing, as a
// courtesy to the upstream server rather than a backoff strategy;
// exhaustion is the caller's cue to skip this assignment and move on.
func (c Client) Statuses(ctx context.Context, assignId string) ([]SubmissionStatus, error) {
	ctx, span := tracer.Start(ctx, "client:Statuses")
	defer span.End()

	span.SetAttributes(attribute.String("assign_id", assignId))

	var body []byte
	var err error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		body, err = c.fetchPage(ctx, assignId)
		if err == nil {
			break
		}
		slog.WarnContext(
			ctx, "grading page fetch failed",
			"assign_id", assignId,
			"attempt", attempt,
			"err", err,
		)
		if attempt < fetchAttempts {
			select {
			case <-time.After(fetchPacing):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch attempts exhausted")
		return nil, err
	}

	return ParseTable(body)
}
