package transport

import (
	"strconv"
	"time"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

const DateLayout = "2006-01-02"

var (
	ErrDateConflict = apperr.Validation("Cannot use date together with from or upTo")
	ErrDateFormat   = apperr.Validation("Invalid date format, expected YYYY-MM-DD")
	ErrAmountFormat = apperr.Validation("Invalid amount filter")
)

// TransactionQuery holds the raw query parameters of a transaction listing.
type TransactionQuery struct {
	Date string `query:"date"`
	From string `query:"from"`
	UpTo string `query:"upTo"`
	Min  string `query:"min"`
	Max  string `query:"max"`
}

// Filter converts the query into a store filter. Days are UTC; upTo and date
// include the whole day.
func (q TransactionQuery) Filter() (repo.TransactionFilter, error) {
	var f repo.TransactionFilter

	if q.Date != "" {
		if q.From != "" || q.UpTo != "" {
			return f, ErrDateConflict
		}
		day, err := parseDay(q.Date)
		if err != nil {
			return f, err
		}
		next := day.AddDate(0, 0, 1)
		f.From, f.Before = &day, &next
	}
	if q.From != "" {
		day, err := parseDay(q.From)
		if err != nil {
			return f, err
		}
		f.From = &day
	}
	if q.UpTo != "" {
		day, err := parseDay(q.UpTo)
		if err != nil {
			return f, err
		}
		next := day.AddDate(0, 0, 1)
		f.Before = &next
	}

	var err error
	if f.Min, err = parseAmount(q.Min); err != nil {
		return f, err
	}
	if f.Max, err = parseAmount(q.Max); err != nil {
		return f, err
	}
	return f, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}

func parseAmount(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return nil, ErrAmountFormat
	}
	return &v, nil
}
