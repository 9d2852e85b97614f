package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
)

// billSequenceWidth is the minimum number of digits in the daily sequence.
const billSequenceWidth = 3

// BillNumberAllocator hands out the next bill number for an outlet and day.
// Numbers are only reserved once the bill row is committed; a concurrent
// caller may compute the same value, which the unique index then rejects.
type BillNumberAllocator interface {
	Next(ctx context.Context, outlet enum.Outlet, at time.Time) (string, error)
}

type sequentialAllocator struct {
	bills repository.BillRepository
	loc   *time.Location
}

// NewBillNumberAllocator reads the latest number for the day and adds one.
// The calendar day is taken in loc.
func NewBillNumberAllocator(bills repository.BillRepository, loc *time.Location) BillNumberAllocator {
	if loc == nil {
		loc = time.Local
	}
	return &sequentialAllocator{bills: bills, loc: loc}
}

func (a *sequentialAllocator) Next(ctx context.Context, outlet enum.Outlet, at time.Time) (string, error) {
	prefix := BillNumberPrefix(outlet, at.In(a.loc))

	latest, err := a.bills.LatestNumberWithPrefix(ctx, outlet, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read latest bill number: %w", err)
	}

	seq := 1
	if latest != "" {
		last, err := ParseBillSequence(latest, prefix)
		if err != nil {
			return "", err
		}
		seq = last + 1
	}
	return FormatBillNumber(prefix, seq), nil
}

// OutletPrefix is the first three characters of the outlet name, uppercased.
func OutletPrefix(outlet enum.Outlet) string {
	s := strings.ToUpper(outlet.String())
	if utf8.RuneCountInString(s) <= 3 {
		return s
	}
	return string([]rune(s)[:3])
}

// BillNumberPrefix is the outlet prefix followed by the day as YYYYMMDD.
func BillNumberPrefix(outlet enum.Outlet, day time.Time) string {
	return OutletPrefix(outlet) + day.Format("20060102")
}

// FormatBillNumber zero-pads seq to at least three digits; larger sequences keep every digit.
func FormatBillNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, billSequenceWidth, seq)
}

// ParseBillSequence extracts the daily sequence from a bill number that starts with prefix.
func ParseBillSequence(number, prefix string) (int, error) {
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("bill number %q does not start with %q", number, prefix)
	}
	suffix := number[len(prefix):]
	if len(suffix) < billSequenceWidth {
		return 0, fmt.Errorf("bill number %q has a short sequence", number)
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("bill number %q has a malformed sequence", number)
	}
	return seq, nil
}
