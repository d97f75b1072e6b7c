package email

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/davrill/taskhub-api/internal/domain"
)

// Subject lines for the notification emails.
func DeadlineSubject(taskTitle string) string {
	return fmt.Sprintf("Reminder: Task %q due soon", taskTitle)
}

func OverdueSubject(taskTitle string) string {
	return fmt.Sprintf("URGENT: Task %q is Overdue", taskTitle)
}

func AssignmentSubject(taskTitle string) string {
	return fmt.Sprintf("New Task Assigned: %q", taskTitle)
}

func StatusChangeSubject(taskTitle string) string {
	return fmt.Sprintf("Task Status Updated: %q", taskTitle)
}

var deadlineTmpl = template.Must(template.New("deadline").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ef4444;">Task Deadline Reminder</h2>
  <p>Hi there,</p>
  <p>This is a reminder that your task is due soon:</p>
  <div style="background: #fef2f2; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #ef4444;">
    <h3 style="margin: 0 0 10px 0; color: #991b1b;">{{.TaskTitle}}</h3>
    <p style="margin: 0; color: #7f1d1d; font-weight: bold;">Due in {{.HoursLeft}} hours</p>
  </div>
  <p>Please complete the task before the deadline.</p>
  {{if .DashboardURL}}<a href="{{.DashboardURL}}" style="display: inline-block; background: #ef4444; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 10px;">View Task</a>{{end}}
</div>
`))

var overdueTmpl = template.Must(template.New("overdue").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Task Overdue Alert</h2>
  <p>Hi there,</p>
  <p><strong>URGENT:</strong> Your task has passed its deadline and is now overdue!</p>
  <div style="background: #fee2e2; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #dc2626;">
    <h3 style="margin: 0 0 10px 0; color: #991b1b;">{{.TaskTitle}}</h3>
    <p style="margin: 0; color: #7f1d1d; font-weight: bold;">Overdue by {{.DaysOverdue}} day(s)</p>
  </div>
  <p>Please complete this task as soon as possible or update its status.</p>
  {{if .DashboardURL}}<a href="{{.DashboardURL}}" style="display: inline-block; background: #dc2626; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 10px;">Complete Task Now</a>{{end}}
</div>
`))

var assignmentTmpl = template.Must(template.New("assignment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #6366f1;">New Task Assigned</h2>
  <p>Hi there,</p>
  <p><strong>{{.AssignerName}}</strong> has assigned you a new task:</p>
  <div style="background: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin: 0 0 10px 0; color: #1f2937;">{{.TaskTitle}}</h3>
    {{if .DueDate}}<p style="margin: 0; color: #6b7280;">Due Date: {{.DueDate}}</p>{{end}}
  </div>
  <p>Log in to your dashboard to view details and start working on it.</p>
  {{if .DashboardURL}}<a href="{{.DashboardURL}}" style="display: inline-block; background: #6366f1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 10px;">View Task</a>{{end}}
</div>
`))

var statusChangeTmpl = template.Must(template.New("status_change").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #10b981;">Task Status Updated</h2>
  <p>Hi there,</p>
  <p><strong>{{.ChangedBy}}</strong> has updated the status of a task:</p>
  <div style="background: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin: 0 0 10px 0; color: #1f2937;">{{.TaskTitle}}</h3>
    <p style="margin: 0; color: #6b7280;">
      Status: <span style="text-decoration: line-through;">{{.OldStatus}}</span> &rarr; <strong style="color: #10b981;">{{.NewStatus}}</strong>
    </p>
  </div>
  {{if .DashboardURL}}<a href="{{.DashboardURL}}" style="display: inline-block; background: #10b981; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 10px;">View Task</a>{{end}}
</div>
`))

// DeadlineBody renders the upcoming-deadline reminder email.
func DeadlineBody(taskTitle string, hoursLeft int, dashboardURL string) (string, error) {
	return render(deadlineTmpl, map[string]any{
		"TaskTitle":    taskTitle,
		"HoursLeft":    hoursLeft,
		"DashboardURL": dashboardURL,
	})
}

// OverdueBody renders the overdue alert email.
func OverdueBody(taskTitle string, daysOverdue int, dashboardURL string) (string, error) {
	return render(overdueTmpl, map[string]any{
		"TaskTitle":    taskTitle,
		"DaysOverdue":  daysOverdue,
		"DashboardURL": dashboardURL,
	})
}

// AssignmentBody renders the task-assignment email.
func AssignmentBody(taskTitle, assignerName, dueDate, dashboardURL string) (string, error) {
	return render(assignmentTmpl, map[string]any{
		"TaskTitle":    taskTitle,
		"AssignerName": assignerName,
		"DueDate":      dueDate,
		"DashboardURL": dashboardURL,
	})
}

// StatusChangeBody renders the status-change email.
func StatusChangeBody(taskTitle, changedBy string, oldStatus, newStatus domain.TaskStatus, dashboardURL string) (string, error) {
	return render(statusChangeTmpl, map[string]any{
		"TaskTitle":    taskTitle,
		"ChangedBy":    changedBy,
		"OldStatus":    string(oldStatus),
		"NewStatus":    string(newStatus),
		"DashboardURL": dashboardURL,
	})
}

func render(tmpl *template.Template, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
