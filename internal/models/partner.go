package models

// Partner is an external retouching provider. Concurrency caps how many of
// its jobs may be running at once.
type Partner struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	Name        string `gorm:"type:varchar(255);not null"`
	Concurrency int    `gorm:"not null"`
}
