package domain

import (
	"math"
	"strconv"
	"strings"
)

// Entry is one logged block of work as shown in the day grid.
type Entry struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
	Note    string  `json:"note"`
}

// Minutes converts Hours back into whole minutes.
func (e Entry) Minutes() int {
	return int(math.Round(e.Hours * 60))
}

// Day groups the entries logged on a single calendar date (YYYY-MM-DD).
type Day struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// TotalHours sums the hours of every entry on the day.
func (d Day) TotalHours() float64 {
	var total float64
	for _, e := range d.Entries {
		total += e.Hours
	}
	return total
}

// Project is a billable target for time entries. ID 0 means unresolved.
type Project struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
}

// Valid reports whether the project can be referenced by a new entry.
func (p Project) Valid() bool {
	return p.ID > 0
}

// TimeEntry is the raw record returned by the remote API before grouping.
type TimeEntry struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	ProjectID   int         `json:"projectId"`
	Project     *ProjectRef `json:"project"`
	ProjectName string      `json:"projectName"`
	Minutes     int         `json:"minutes"`
}

// ProjectRef is the nested project object some API versions embed in entries.
type ProjectRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// resolveProjectName picks the display name for a raw entry.
func (t TimeEntry) resolveProjectName(names map[int]string) string {
	lookup := func(id int) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "Project " + strconv.Itoa(id)
	}

	switch {
	case t.ProjectID != 0:
		return lookup(t.ProjectID)
	case t.Project != nil:
		if name := strings.TrimSpace(t.Project.Name); name != "" {
			return name
		}
		if t.Project.ID != 0 {
			return lookup(t.Project.ID)
		}
		return "Project"
	case strings.TrimSpace(t.ProjectName) != "":
		return strings.TrimSpace(t.ProjectName)
	default:
		return "Project"
	}
}
