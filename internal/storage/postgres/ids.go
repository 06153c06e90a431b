package postgres

import "github.com/google/uuid"

const (
	ticketIDPrefix = "t"
	jobIDPrefix    = "j"
)

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
