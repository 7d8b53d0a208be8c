package exporter

import (
	"aulareport/lib/scrapers/moodle/feedback"
	"aulareport/lib/scrapers/moodle/grading"
)

// SurveyRow pairs a roster user with their survey response, if any.
type SurveyRow struct {
	User     User
	Response *feedback.Response
}

// ReconcileSurvey iterates the roster outward: every user appears
// exactly once, in roster order, with a nil Response when no record
// matches their email. When two records share an email the earlier one
// by source order wins.
func ReconcileSurvey(roster []User, responses []feedback.Response) []SurveyRow {
	rows := make([]SurveyRow, 0, len(roster))
	for _, user := range roster {
		row := SurveyRow{User: user}
		for i := range responses {
			if responses[i].Email == user.Email {
				row.Response = &responses[i]
				break
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// StatusCell is the fixed-shape rendering of one deliverable's state
// for one person.
type StatusCell struct {
	Estado   string
	Grade    string
	Modified string
}

// DeliverableRecord accumulates per-deliverable cells for one email
// across every processed deliverable, keyed by deliverable label.
type DeliverableRecord struct {
	Email   string
	Name    string
	ByLabel map[string]StatusCell
}

// DeliverableSet merges grading-table rows from several deliverables
// into one record per first-seen email. Labels are remembered in
// processing order so the output table stays ordered by label, not by
// completion time.
type DeliverableSet struct {
	Labels  []string
	byEmail map[string]*DeliverableRecord
	order   []string
}

func NewDeliverableSet() *DeliverableSet {
	return &DeliverableSet{
		byEmail: map[string]*DeliverableRecord{},
	}
}

// Add merges one deliverable's statuses under its label.
func (s *DeliverableSet) Add(label string, statuses []grading.SubmissionStatus) {
	s.Labels = append(s.Labels, label)
	for _, status := range statuses {
		record, seen := s.byEmail[status.Email]
		if !seen {
			record = &DeliverableRecord{
				Email:   status.Email,
				Name:    status.Name,
				ByLabel: map[string]StatusCell{},
			}
			s.byEmail[status.Email] = record
			s.order = append(s.order, status.Email)
		}
		if _, dup := record.ByLabel[label]; dup {
			continue
		}
		record.ByLabel[label] = StatusCell{
			Estado:   status.Estado(),
			Grade:    status.Grade,
			Modified: status.Modified,
		}
	}
}

// Records lists every known roster user first (blank record when the
// deliverable data never mentioned them), then emails seen only in
// deliverable data, in first-seen order.
func (s *DeliverableSet) Records(roster []User) []DeliverableRecord {
	records := make([]DeliverableRecord, 0, len(roster)+len(s.order))
	inRoster := make(map[string]bool, len(roster))

	for _, user := range roster {
		inRoster[user.Email] = true
		if record, ok := s.byEmail[user.Email]; ok {
			merged := *record
			merged.Name = user.FullName
			records = append(records, merged)
			continue
		}
		records = append(records, DeliverableRecord{
			Email:   user.Email,
			Name:    user.FullName,
			ByLabel: map[string]StatusCell{},
		})
	}

	for _, email := range s.order {
		if inRoster[email] {
			continue
		}
		records = append(records, *s.byEmail[email])
	}

	return records
}
