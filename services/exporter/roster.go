package exporter

import (
	"context"

	"aulareport/lib/scrapers/moodle/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// User is one enrolled course participant. Email is the join key for
// every reconciliation and is kept byte-exact as the platform returns
// it.
type User struct {
	FullName string
	Email    string
}

type reportUser struct {
	Id       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type reportUsers struct {
	Users []reportUser `json:"users"`
}

// FetchRoster enumerates the course participants through the grader
// report service call. Participants without an email address cannot be
// joined against anything and are dropped.
func FetchRoster(ctx context.Context, client *core.Client, courseId int64) ([]User, error) {
	ctx, span := tracer.Start(ctx, "FetchRoster")
	defer span.End()

	span.SetAttributes(attribute.Int64("course_id", courseId))

	var data reportUsers
	err := client.CallService(
		ctx,
		"gradereport_grader_get_users_in_report",
		map[string]any{"courseid": courseId},
		&data,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course participants")
		return nil, err
	}

	var roster []User
	for _, u := range data.Users {
		if u.Email == "" {
			continue
		}
		roster = append(roster, User{
			FullName: u.Fullname,
			Email:    u.Email,
		})
	}

	span.SetAttributes(attribute.Int("participants", len(roster)))
	return roster, nil
}
