package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"Presence/Models"
	"Presence/email"
)

// DailyCloser is the scheduled end-of-day service: it backfills ABSENT entries
// for employees who never punched on the previous date and mails a summary.
type DailyCloser struct {
	cronScheduler *cron.Cron
	store         *Models.AttendanceStore
	sender        *email.Sender
	schedule      string
	jobID         cron.EntryID
}

// DaySummary is the close result for one calendar date.
type DaySummary struct {
	Date         string
	Completed    int
	StillWorking int
	Absent       int
}

// NewDailyCloser creates the daily close service. sender may be nil, then only
// the absent backfill runs.
func NewDailyCloser(store *Models.AttendanceStore, sender *email.Sender, schedule string) *DailyCloser {
	return &DailyCloser{
		cronScheduler: cron.New(cron.WithSeconds()),
		store:         store,
		sender:        sender,
		schedule:      schedule,
	}
}

// Start schedules the daily close.
func (d *DailyCloser) Start() error {
	var err error
	d.jobID, err = d.cronScheduler.AddFunc(d.schedule, func() {
		log.Println("Running scheduled daily attendance close")
		yesterday := Models.Today(time.Now().AddDate(0, 0, -1))
		if _, err := d.CloseDate(yesterday); err != nil {
			log.Printf("Error closing attendance for %s: %v", yesterday, err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}
	d.cronScheduler.Start()
	return nil
}

// Stop terminates the scheduler.
func (d *DailyCloser) Stop() {
	if d.cronScheduler != nil {
		d.cronScheduler.Stop()
		log.Println("Daily close scheduler stopped")
	}
}

// RunManualClose closes the given date outside the schedule.
func (d *DailyCloser) RunManualClose(date string) (DaySummary, error) {
	log.Printf("Running manual attendance close for %s", date)
	return d.CloseDate(date)
}

// CloseDate backfills an ABSENT entry for every registered employee without a
// daily entry on the date, tallies the day, and mails the summary. The absent
// insert goes through the same conditional write as a punch, so a late punch
// racing the close cannot be overwritten.
func (d *DailyCloser) CloseDate(date string) (DaySummary, error) {
	summary := DaySummary{Date: date}

	employees, err := d.store.ListEmployees()
	if err != nil {
		return summary, err
	}
	entries, err := d.store.EntriesOnDate(date)
	if err != nil {
		return summary, err
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		seen[entry.EmployeeID] = true
		switch entry.Status {
		case Models.StatusCompleted:
			summary.Completed++
		case Models.StatusWorking:
			summary.StillWorking++
		case Models.StatusAbsent:
			summary.Absent++
		}
	}

	for _, emp := range employees {
		if seen[emp.EmployeeID] {
			continue
		}
		record, err := d.store.EnsureRecord(emp.EmployeeID, emp.Name)
		if err != nil {
			return summary, err
		}
		entry := Models.NewDailyEntry(emp.EmployeeID, date)
		entry.RecordID = record.ID
		entry.Status = Models.StatusAbsent
		if err := d.store.InsertEntry(&entry); err != nil {
			if err == Models.ErrEntryExists {
				continue
			}
			return summary, err
		}
		summary.Absent++
	}

	d.sender.SendSummary(
		fmt.Sprintf("Attendance summary %s", date),
		summaryHTML(summary),
	)
	return summary, nil
}

func summaryHTML(s DaySummary) string {
	return fmt.Sprintf(
		"<h3>Attendance %s</h3><ul><li>Completed: %d</li><li>Still working: %d</li><li>Absent: %d</li></ul>",
		s.Date, s.Completed, s.StillWorking, s.Absent)
}
