package models

import "time"

// ResumeVersion is a named snapshot of resume text. It is never changed after creation.
type ResumeVersion struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
