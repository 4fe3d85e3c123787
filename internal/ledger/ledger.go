// Package ledger renders selected candidates into the fixed display schema.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/XavierBriggs/Titanium/pkg/models"
	"github.com/XavierBriggs/Titanium/pkg/oddsmath"
)

const (
	DefaultPlaceholder = "—"
	TimeLayout         = "Mon Jan 2 3:04 PM MST"
)

var columns = []string{"Time", "Matchup", "Type", "Target", "Line", "Price", "Sportsbook", "Rationale"}

// Assembler renders candidates into ledger rows
type Assembler struct {
	loc         *time.Location
	placeholder string
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLocation renders start times in loc
func WithLocation(loc *time.Location) Option {
	return func(a *Assembler) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithPlaceholder sets the text shown for missing fields
func WithPlaceholder(p string) Option {
	return func(a *Assembler) {
		a.placeholder = p
	}
}

// NewAssembler creates an assembler rendering UTC times with "—" placeholders
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		loc:         time.UTC,
		placeholder: DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Columns returns the fixed header
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Assemble renders candidates in the order given
func (a *Assembler) Assemble(candidates []models.CandidateBet) []models.LedgerRow {
	rows := make([]models.LedgerRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, models.LedgerRow{
			Time:       a.time(c.StartTime),
			Matchup:    a.text(c.Matchup),
			Type:       a.text(typeLabel(c)),
			Target:     a.text(c.Target),
			Line:       a.line(c),
			Price:      a.price(c.Price),
			Sportsbook: a.text(c.Book),
			Rationale:  a.text(c.Rationale),
		})
	}
	return rows
}

// Records returns rows as string slices in column order
func Records(rows []models.LedgerRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Time, r.Matchup, r.Type, r.Target, r.Line, r.Price, r.Sportsbook, r.Rationale})
	}
	return out
}

// WriteCSV writes the header and rows as CSV
func WriteCSV(w io.Writer, rows []models.LedgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(Records(rows)); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func (a *Assembler) text(s string) string {
	if s == "" {
		return a.placeholder
	}
	return s
}

func (a *Assembler) time(t time.Time) string {
	if t.IsZero() {
		return a.placeholder
	}
	return t.In(a.loc).Format(TimeLayout)
}

func (a *Assembler) price(p int) string {
	if p == 0 {
		return a.placeholder
	}
	return oddsmath.FormatAmerican(p)
}

// line signs handicaps (+1.5) and leaves totals and props plain
func (a *Assembler) line(c models.CandidateBet) string {
	if c.Line == nil {
		return a.placeholder
	}
	l := *c.Line
	switch c.Category {
	case models.CategoryTotal, models.CategoryProp:
		return strconv.FormatFloat(l, 'f', -1, 64)
	}
	if l > 0 {
		return "+" + strconv.FormatFloat(l, 'f', -1, 64)
	}
	return strconv.FormatFloat(l, 'f', -1, 64)
}

func typeLabel(c models.CandidateBet) string {
	if c.Side == "" {
		return c.Category
	}
	return fmt.Sprintf("%s (%s)", c.Category, c.Side)
}
