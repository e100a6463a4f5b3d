package demand

import (
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// IsBusinessDay lunes a viernes. Feriados no se modelan.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDayOf fecha hábil a la que se imputa un instante: sábado y domingo van al viernes anterior.
func BusinessDayOf(t time.Time) time.Time {
	d := entity.DateOf(t)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextBusinessDay primer día hábil en o después de t.
func NextBusinessDay(t time.Time) time.Time {
	d := entity.DateOf(t)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddBusinessDays suma n días hábiles (n negativo retrocede) a partir de un día hábil.
func AddBusinessDays(t time.Time, n int) time.Time {
	d := entity.DateOf(t)
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for n > 0 {
		d = d.AddDate(0, 0, step)
		if IsBusinessDay(d) {
			n--
		}
	}
	return d
}
