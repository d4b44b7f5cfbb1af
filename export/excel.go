// Package export renders the collection set into an .xlsx workbook for the
// admin download: one summary sheet plus one sheet per collection.
package export

import (
	"fmt"
	"time"

	"robolab/db"
	"robolab/duedate"
	"robolab/models"

	"github.com/xuri/excelize/v2"
)

type Data struct {
	Stats      *db.SystemStats
	Components []models.Component
	Requests   []models.BorrowRequest
	Users      []models.User
	Sessions   []models.LoginSession
	Now        time.Time
}

const dateFmt = "2006-01-02 15:04"

func BuildWorkbook(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}

	if err := writeSummary(f, d); err != nil {
		return nil, err
	}
	if err := writeComponents(f, d.Components); err != nil {
		return nil, err
	}
	if err := writeRequests(f, d.Requests, d.Now); err != nil {
		return nil, err
	}
	if err := writeUsers(f, d.Users); err != nil {
		return nil, err
	}
	if err := writeSessions(f, d.Sessions); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, d Data) error {
	rows := [][]interface{}{
		{"Lab Inventory Report"},
		{"Generated", d.Now.Format(dateFmt)},
		{},
		{"Total Users", d.Stats.TotalUsers},
		{"Active Users", d.Stats.ActiveUsers},
		{"Total Logins", d.Stats.TotalLogins},
		{"Online Users", d.Stats.OnlineUsers},
		{"Total Requests", d.Stats.TotalRequests},
		{"Pending Requests", d.Stats.PendingRequests},
		{"Total Components", d.Stats.TotalComponents},
		{"Overdue Items", d.Stats.OverdueItems},
	}
	return writeRows(f, "Summary", rows)
}

func writeComponents(f *excelize.File, cs []models.Component) error {
	rows := [][]interface{}{
		{"Name", "Category", "Description", "Total", "Available", "Checked Out"},
	}
	for _, c := range cs {
		rows = append(rows, []interface{}{
			c.Name, c.Category, c.Description,
			c.TotalQuantity, c.AvailableQuantity, c.TotalQuantity - c.AvailableQuantity,
		})
	}
	return writeSheet(f, "Components", rows)
}

func writeRequests(f *excelize.File, rs []models.BorrowRequest, now time.Time) error {
	rows := [][]interface{}{
		{"Student", "Roll No", "Mobile", "Component", "Qty", "Requested", "Due", "Status", "Due Status", "Approved By", "Returned At", "Notes"},
	}
	for _, r := range rs {
		dueStatus := ""
		if r.Status == models.StatusApproved {
			dueStatus = duedate.Label(duedate.DaysRemaining(r.DueDate, now))
		}
		returnedAt := ""
		if r.ReturnedAt != nil {
			returnedAt = r.ReturnedAt.Format(dateFmt)
		}
		rows = append(rows, []interface{}{
			r.StudentName, r.RollNo, r.Mobile, r.ComponentName, r.Quantity,
			r.RequestDate.Format(dateFmt), r.DueDate.Format("2006-01-02"),
			string(r.Status), dueStatus, r.ApprovedBy, returnedAt, r.Notes,
		})
	}
	return writeSheet(f, "Borrow Requests", rows)
}

func writeUsers(f *excelize.File, us []models.User) error {
	rows := [][]interface{}{
		{"Name", "Email", "Role", "Roll No", "Registered", "Last Login", "Login Count", "Active"},
	}
	for _, u := range us {
		lastLogin := ""
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format(dateFmt)
		}
		rows = append(rows, []interface{}{
			u.Name, u.Email, u.Role, u.RollNo,
			u.RegisteredAt.Format(dateFmt), lastLogin, u.LoginCount, u.IsActive,
		})
	}
	return writeSheet(f, "Users", rows)
}

func writeSessions(f *excelize.File, ss []models.LoginSession) error {
	rows := [][]interface{}{
		{"User", "Email", "Role", "Login Time", "Logout Time", "Duration (min)", "Status"},
	}
	for _, s := range ss {
		logout, dur, status := "", "", "Active"
		if s.LogoutTime != nil {
			logout = s.LogoutTime.Format(dateFmt)
			status = "Ended"
		}
		if s.SessionDuration != nil {
			dur = fmt.Sprintf("%d", *s.SessionDuration/60)
		}
		rows = append(rows, []interface{}{
			s.UserName, s.UserEmail, s.UserRole,
			s.LoginTime.Format(dateFmt), logout, dur, status,
		})
	}
	return writeSheet(f, "Login Sessions", rows)
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
