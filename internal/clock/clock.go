package clock

import (
	"time"

	"github.com/R0llcre/promotions/internal/models"
)

// Clock supplies the current calendar date. The active-window filter and
// the deactivate rule depend on "today", so it is injected for tests.
type Clock interface {
	Today() models.Date
}

// Real reads the system clock in UTC.
type Real struct{}

func (Real) Today() models.Date {
	return models.DateOf(time.Now())
}

// Fixed always reports the same date. For tests.
type Fixed struct {
	Date models.Date
}

func (f Fixed) Today() models.Date {
	return f.Date
}
