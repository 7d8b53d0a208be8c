package exporter

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"aulareport/lib/timezone"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

func (s *Service) sendRunSummary(ctx context.Context, summary RunSummary) error {
	_, span := tracer.Start(ctx, "sendRunSummary")
	defer span.End()

	cfg := s.config.Smtp

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Aula Report <%s>", cfg.EmailAddress)
	mail.To = cfg.To
	mail.Subject = fmt.Sprintf("Reporte de exportación %s", timezone.Stamp(summary.Stamp))

	var body strings.Builder
	fmt.Fprintf(&body, "Ejecución registrada el: %s\n\n", timezone.Stamp(summary.Stamp))
	if summary.SurveyPublished {
		fmt.Fprintf(&body, "Encuesta: %d filas publicadas.\n", summary.SurveyRows)
	} else if s.config.Survey != nil {
		fmt.Fprintf(&body, "Encuesta: sin datos para publicar.\n")
	}
	if summary.DeliverablesPublished {
		fmt.Fprintf(&body, "Tareas: %d filas publicadas.\n", summary.DeliverableRows)
	} else if s.config.Deliverables != nil {
		fmt.Fprintf(&body, "Tareas: sin datos para publicar.\n")
	}
	if len(summary.Skipped) > 0 {
		fmt.Fprintf(&body, "\nTareas omitidas por errores de descarga: %s\n", strings.Join(summary.Skipped, ", "))
	}
	mail.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send summary email")
		return err
	}
	return nil
}
