package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/R0llcre/promotions/internal/models"
)

func TestRealToday(t *testing.T) {
	today := Real{}.Today()
	assert.Equal(t, models.DateOf(time.Now()), today)
}

func TestFixedToday(t *testing.T) {
	date := models.NewDate(2024, time.June, 15)
	c := Fixed{Date: date}
	assert.Equal(t, date, c.Today())
	assert.Equal(t, date, c.Today(), "repeated calls report the same date")
}
