package entity

import (
	"fmt"
	"time"
)

// YearMonth mes calendario (formato YYYY-MM).
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth interpreta "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("año-mes %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf devuelve el mes calendario de un instante.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)) }

// Start primer instante del mes (UTC).
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next mes siguiente.
func (ym YearMonth) Next() YearMonth { return YearMonthOf(ym.Start().AddDate(0, 1, 0)) }

// Before indica si ym es anterior a other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Contains indica si el instante cae dentro de [from, to] (meses inclusivos).
func Contains(from, to YearMonth, t time.Time) bool {
	ym := YearMonthOf(t)
	return !ym.Before(from) && !to.Before(ym)
}

// MarshalText serializa como "YYYY-MM".
func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

// UnmarshalText interpreta "YYYY-MM".
func (ym *YearMonth) UnmarshalText(b []byte) error {
	v, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = v
	return nil
}
