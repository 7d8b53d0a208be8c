package feedback

import (
	"context"
	"fmt"

	"aulareport/lib/scrapers/moodle/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/moodle/feedback")

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

// Export downloads the response table of a feedback activity as CSV
// text. This goes through the same endpoint the "Download table data"
// form on show_entries.php posts to, so the CSV comes back in the HTTP
// response body directly instead of landing in a browser download
// folder.
func (c Client) Export(ctx context.Context, surveyId string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Export")
	defer span.End()

	span.SetAttributes(attribute.String("survey_id", surveyId))

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":       surveyId,
			"download": "csv",
			"sesskey":  c.Core.Sesskey,
		}).
		Get("/mod/feedback/show_entries.php")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch export")
		return "", err
	}
	if res.StatusCode() >= 400 {
		err := fmt.Errorf("feedback export returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return res.String(), nil
}
