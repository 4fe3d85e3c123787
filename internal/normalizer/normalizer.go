// Package normalizer converts vendor odds payloads into canonical events.
//
// Payloads are decoded field by field so that a malformed event, bookmaker,
// market or outcome is dropped on its own while the rest of the payload is
// still processed.
package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/Titanium/pkg/models"
	"github.com/XavierBriggs/Titanium/pkg/oddsmath"
)

// Stats counts what was discarded while normalizing
type Stats struct {
	Events        int
	DroppedEvents int
	DroppedQuotes int
}

// Normalizer parses vendor payloads and applies the bookmaker preference
type Normalizer struct {
	preference []string
	logger     *slog.Logger
}

// New creates a normalizer. bookPreference is an ordered list of bookmaker
// keys; when an event carries several books the first listed one is kept,
// otherwise the first book present.
func New(bookPreference []string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	pref := make([]string, len(bookPreference))
	for i, key := range bookPreference {
		pref[i] = strings.ToLower(strings.TrimSpace(key))
	}
	return &Normalizer{
		preference: pref,
		logger:     logger.With("component", "normalizer"),
	}
}

// Normalize parses one or more payloads into canonical events.
// Events sharing an ID across payloads are merged before the bookmaker
// preference is applied. Output is ordered by start time, then ID.
func (n *Normalizer) Normalize(payloads ...[]byte) []models.Event {
	events, _ := n.NormalizeWithStats(payloads...)
	return events
}

// NormalizeWithStats is Normalize plus drop counters
func (n *Normalizer) NormalizeWithStats(payloads ...[]byte) ([]models.Event, Stats) {
	var stats Stats
	merged := make(map[string]*models.Event)
	var order []string

	for _, payload := range payloads {
		for _, raw := range splitPayload(payload) {
			event, dropped, err := parseEvent(raw)
			stats.DroppedQuotes += dropped
			if err != nil {
				stats.DroppedEvents++
				n.logger.Debug("event dropped", "error", err)
				continue
			}

			key := eventKey(event)
			existing, ok := merged[key]
			if !ok {
				merged[key] = &event
				order = append(order, key)
				continue
			}
			mergeBooks(existing, event.Books)
		}
	}

	events := make([]models.Event, 0, len(order))
	for _, key := range order {
		event := *merged[key]
		event.Books = n.preferredBook(event.Books)
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})

	stats.Events = len(events)
	return events, stats
}

// preferredBook reduces an event to a single bookmaker group
func (n *Normalizer) preferredBook(books []models.Book) []models.Book {
	if len(books) <= 1 {
		return books
	}
	for _, pref := range n.preference {
		for _, book := range books {
			if strings.EqualFold(book.Key, pref) {
				return []models.Book{book}
			}
		}
	}
	return books[:1]
}

// splitPayload accepts a batched array, a single per-game object, or a
// {"data": [...]} envelope. Anything else yields nothing.
func splitPayload(payload []byte) []json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		return items

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		if data, ok := obj["data"]; ok {
			if _, hasTeams := obj["home_team"]; !hasTeams {
				return splitPayload(data)
			}
		}
		return []json.RawMessage{trimmed}
	}

	return nil
}

// parseEvent decodes one event. The int return counts dropped quotes.
func parseEvent(raw json.RawMessage) (models.Event, int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Event{}, 0, fmt.Errorf("decode event: %w", err)
	}

	home, _ := stringField(fields["home_team"])
	away, _ := stringField(fields["away_team"])
	if home == "" || away == "" {
		return models.Event{}, 0, fmt.Errorf("event missing home or away team")
	}

	id, _ := stringField(fields["id"])
	sport, _ := stringField(fields["sport_key"])

	event := models.Event{
		ID:        id,
		Sport:     sport,
		HomeTeam:  strings.TrimSpace(home),
		AwayTeam:  strings.TrimSpace(away),
		StartTime: timeField(fields["commence_time"]),
	}

	var rawBooks []json.RawMessage
	if b, ok := fields["bookmakers"]; ok {
		if err := json.Unmarshal(b, &rawBooks); err != nil {
			rawBooks = nil
		}
	}

	dropped := 0
	for _, rb := range rawBooks {
		book, d, ok := parseBook(rb)
		dropped += d
		if !ok {
			continue
		}
		mergeBooks(&event, []models.Book{book})
	}

	return event, dropped, nil
}

func parseBook(raw json.RawMessage) (models.Book, int, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Book{}, 0, false
	}

	key, _ := stringField(fields["key"])
	if key == "" {
		return models.Book{}, 0, false
	}
	title, _ := stringField(fields["title"])
	if title == "" {
		title = key
	}

	book := models.Book{Key: key, Title: title}

	var rawMarkets []json.RawMessage
	if m, ok := fields["markets"]; ok {
		if err := json.Unmarshal(m, &rawMarkets); err != nil {
			rawMarkets = nil
		}
	}

	dropped := 0
	for _, rm := range rawMarkets {
		quotes, d := parseMarket(rm, key, title)
		dropped += d
		book.Quotes = append(book.Quotes, quotes...)
	}

	return book, dropped, true
}

func parseMarket(raw json.RawMessage, bookKey, bookTitle string) ([]models.MarketQuote, int) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, 1
	}

	marketKey, _ := stringField(fields["key"])
	kind, ok := models.KindForMarketKey(marketKey)
	if !ok {
		return nil, 0 // market not consumed by any evaluator
	}

	var rawOutcomes []json.RawMessage
	if o, ok := fields["outcomes"]; ok {
		if err := json.Unmarshal(o, &rawOutcomes); err != nil {
			return nil, 1
		}
	}

	quotes := make([]models.MarketQuote, 0, len(rawOutcomes))
	dropped := 0
	for _, ro := range rawOutcomes {
		quote, err := parseOutcome(ro, kind, marketKey)
		if err != nil {
			dropped++
			continue
		}
		quote.Book = bookKey
		quote.BookTitle = bookTitle
		quotes = append(quotes, quote)
	}

	return quotes, dropped
}

func parseOutcome(raw json.RawMessage, kind models.MarketKind, marketKey string) (models.MarketQuote, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.MarketQuote{}, fmt.Errorf("decode outcome: %w", err)
	}

	name, _ := stringField(fields["name"])
	if name == "" {
		return models.MarketQuote{}, fmt.Errorf("outcome missing name")
	}

	price, err := priceField(fields["price"])
	if err != nil {
		return models.MarketQuote{}, err
	}

	quote := models.MarketQuote{
		Kind:      kind,
		MarketKey: marketKey,
		Outcome:   strings.TrimSpace(name),
		Price:     price,
	}

	if desc, ok := stringField(fields["description"]); ok {
		quote.Participant = strings.TrimSpace(desc)
	}

	if kind != models.MarketMoneyline {
		line, ok := numberField(fields["point"])
		if !ok {
			return models.MarketQuote{}, fmt.Errorf("%s outcome %q missing point", marketKey, name)
		}
		quote.Line = &line
	}

	return quote, nil
}

// mergeBooks appends books to an event, folding quotes from a book key that
// is already present and skipping exact duplicate quotes.
func mergeBooks(event *models.Event, books []models.Book) {
	for _, book := range books {
		idx := -1
		for i := range event.Books {
			if strings.EqualFold(event.Books[i].Key, book.Key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			event.Books = append(event.Books, book)
			continue
		}

		seen := make(map[string]bool, len(event.Books[idx].Quotes))
		for _, q := range event.Books[idx].Quotes {
			seen[quoteKey(q)] = true
		}
		for _, q := range book.Quotes {
			if !seen[quoteKey(q)] {
				event.Books[idx].Quotes = append(event.Books[idx].Quotes, q)
				seen[quoteKey(q)] = true
			}
		}
	}
}

func quoteKey(q models.MarketQuote) string {
	line := "-"
	if q.Line != nil {
		line = strconv.FormatFloat(*q.Line, 'f', -1, 64)
	}
	return strings.Join([]string{q.MarketKey, q.Outcome, q.Participant, line}, "|")
}

func eventKey(e models.Event) string {
	if e.ID != "" {
		return e.ID
	}
	return strings.Join([]string{e.Sport, e.HomeTeam, e.AwayTeam, e.StartTime.Format(time.RFC3339)}, "|")
}

// stringField accepts a JSON string or number
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// numberField accepts a JSON number or a numeric string
func numberField(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// maxPrice bounds a price before integer conversion
const maxPrice = math.MaxInt32

// priceField coerces an American price. Numbers are rounded, strings may
// carry a sign or read EVEN/EV. Zero and sub-100 magnitudes are rejected.
func priceField(raw json.RawMessage) (int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "EVEN", "EV":
			return 100, nil
		}
	}

	v, ok := numberField(raw)
	if !ok {
		return 0, fmt.Errorf("price is not numeric: %s", string(raw))
	}
	if math.Abs(v) > maxPrice {
		return 0, fmt.Errorf("price %g is out of range", v)
	}

	price := oddsmath.NormalizePickem(int(math.Round(v)))
	if !oddsmath.IsValidAmerican(price) {
		return 0, fmt.Errorf("price %d is not valid American odds", price)
	}
	return price, nil
}

// timeField accepts RFC3339 strings or Unix seconds; anything else is zero
func timeField(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
		return time.Time{}
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil && secs > 0 {
		return time.Unix(int64(secs), 0).UTC()
	}
	return time.Time{}
}
