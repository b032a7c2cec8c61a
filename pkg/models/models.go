package models

// Domain models matching the database schema in db/schema/0001_job_applications.sql

type JobApplication struct {
	ID          int64  `json:"id" db:"id"`
	CompanyName string `json:"companyName" db:"company_name"`
	JobTitle    string `json:"jobTitle" db:"job_title"`
	Status      string `json:"status" db:"status"`
	Date        Date   `json:"date" db:"date"`
	JobLink     string `json:"jobLink" db:"job_link"`
	Notes       string `json:"notes" db:"notes"`
}

// StatusCounts maps a raw status label to the number of applications carrying it.
type StatusCounts map[string]int64
