package handlers

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/ayos-surigao/ayos-api/models"
	templates "github.com/ayos-surigao/ayos-api/templates/html"
)

// notifyStatusChange fans a transition out to the live feed and, when the
// reporter registered a push token, to their phone
func (re Report) notifyStatusChange(report models.Report, from models.ReportStatus) {
	re.Feed.BroadcastReportEvent("report_status_changed", report)

	if report.PushToken == "" {
		return
	}
	title := fmt.Sprintf("Report %s updated", report.ReportNumber)
	body := fmt.Sprintf("Your report is now %s.", report.Status)
	err := SendExpoPushNotifications([]string{report.PushToken}, title, body, map[string]interface{}{
		"reportId":  report.ID.Hex(),
		"oldStatus": string(from),
		"newStatus": string(report.Status),
	})
	if err != nil {
		zap.S().Errorw("failed to push status change", "reportId", report.ID.Hex(), "error", err)
	}
}

// notifyAssignment emails the assigned staff member and pushes the
// assignment event to the feed
func (re Report) notifyAssignment(report models.Report, staff models.OperationsStaff) {
	re.Feed.BroadcastReportEvent("report_assigned", report)

	if staff.Email == "" {
		return
	}
	subject := fmt.Sprintf("New assignment: %s", report.ReportNumber)
	body := fmt.Sprintf(`Hi %s,

You have been assigned report %s.

Title: %s
Category: %s
Urgency: %s
Barangay: %s (%s)
Location: %s

Please acknowledge the assignment from the field app.`,
		staff.Name, report.ReportNumber, report.Title, report.Category,
		report.Urgency, report.BarangayName, report.BarangayCode, report.SpecificLocation)

	if err := sendOpsEmail(staff.Email, subject, body); err != nil {
		zap.S().Errorw("failed to send assignment email",
			"reportId", report.ID.Hex(), "staffId", staff.ID.Hex(), "error", err)
	}
}

// sendOpsEmail sends a branded transactional email to an ops address
func sendOpsEmail(toEmail, subject, body string) error {
	from := mail.NewEmail("Ayos Surigao", "no-reply@ayossurigao.ph")
	to := mail.NewEmail("", toEmail)
	html := templates.RenderGenericEmail(subject, body)
	msg := mail.NewSingleEmail(from, subject, to, body, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(msg)
	return err
}
