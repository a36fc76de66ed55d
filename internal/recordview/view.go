// Package recordview holds the searchable, editable view model shared by every
// collection screen.
//
// A View owns a working copy of one collection, the current search query and
// at most one in-progress edit. Nothing a View does is written back to the
// data document; reloading discards local edits.
package recordview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"shopdesk/internal/content"
	"shopdesk/internal/models"
)

var (
	ErrNoEdit       = errors.New("no edit in progress")
	ErrNotEditable  = errors.New("collection is read-only")
	ErrUnknownField = errors.New("field is not editable")
)

// Draft is the working copy of a record being edited.
type Draft struct {
	ID     string
	Fields models.Record
}

type View struct {
	schema  Schema
	records []models.Record
	query   string
	editing *Draft
	logger  *slog.Logger
}

func New(schema Schema, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &View{
		schema:  schema,
		records: []models.Record{},
		logger:  logger.With("collection", schema.Collection),
	}
}

func (v *View) Schema() Schema {
	return v.schema
}

// Load fetches the data document and seeds the view with its collection.
// A failed fetch leaves the view empty.
func (v *View) Load(ctx context.Context, src content.Source) {
	v.Seed(LoadCollection(ctx, src, v.schema.Collection, v.logger))
}

// LoadCollection fetches the document and extracts one collection. Errors
// are logged and yield an empty collection.
func LoadCollection(ctx context.Context, src content.Source, collection string, logger *slog.Logger) []models.Record {
	doc, err := src.Fetch(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to load data document",
				slog.String("source", src.Location()),
				slog.Any("err", err))
		}
		return []models.Record{}
	}
	return doc.Collection(collection)
}

// Seed replaces the working copy and drops any edit in progress.
func (v *View) Seed(records []models.Record) {
	if records == nil {
		records = []models.Record{}
	}
	v.records = records
	v.editing = nil
}

func (v *View) Records() []models.Record {
	return v.records
}

func (v *View) SetQuery(text string) {
	v.query = text
}

func (v *View) Query() string {
	return v.query
}

// Filtered returns the records matching the current query.
func (v *View) Filtered() []models.Record {
	return Filter(v.records, v.schema.Searchable, v.query)
}

// Editing returns the draft in progress, or nil.
func (v *View) Editing() *Draft {
	return v.editing
}

func (v *View) BeginEdit(record models.Record) error {
	if !v.schema.CanEdit() {
		return ErrNotEditable
	}
	fields := make(models.Record, len(v.schema.Editable))
	src := record.Clone()
	for _, f := range v.schema.Editable {
		if val, ok := src[f.Name]; ok {
			fields[f.Name] = val
		}
	}
	v.editing = &Draft{ID: record.ID(), Fields: fields}
	return nil
}

// UpdateDraft sets one field of the draft. Integer fields are coerced with
// ParseLeadingInt, so unparseable input becomes 0.
func (v *View) UpdateDraft(field, value string) error {
	if v.editing == nil {
		return ErrNoEdit
	}
	f, ok := v.schema.field(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	switch f.Kind {
	case KindInteger:
		v.editing.Fields[field] = ParseLeadingInt(value)
	default:
		v.editing.Fields[field] = value
	}
	return nil
}

// CommitEdit merges the draft into the record with the same identifier and
// clears the edit. An identifier with no match leaves records unchanged.
func (v *View) CommitEdit() error {
	if v.editing == nil {
		return ErrNoEdit
	}
	draft := v.editing
	v.editing = nil

	// Without an identifier the draft cannot be matched to one record.
	if draft.ID == "" {
		v.logger.Debug("commit for record without id ignored")
		return nil
	}

	for _, r := range v.records {
		if r.ID() != draft.ID {
			continue
		}
		merged := r.Clone()
		for k, val := range draft.Fields {
			merged[k] = val
		}
		v.records = Upsert(v.records, merged)
		return nil
	}
	v.logger.Debug("commit for unknown record ignored", slog.String("id", draft.ID))
	return nil
}

func (v *View) CancelEdit() {
	v.editing = nil
}

// Filter keeps records where any of fields contains query, ignoring case.
// The result preserves input order. An empty query keeps everything.
func Filter(records []models.Record, fields []string, query string) []models.Record {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(r.Text(f)), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Upsert returns a new slice where the record sharing rec's identifier is
// replaced by rec. Without a match the result equals records. The input
// slice is never modified.
func Upsert(records []models.Record, rec models.Record) []models.Record {
	id := rec.ID()
	out := make([]models.Record, len(records))
	copy(out, records)
	for i, r := range out {
		if r.ID() == id {
			out[i] = rec
			break
		}
	}
	return out
}

// ParseLeadingInt reads an optional sign and the leading run of digits,
// skipping leading whitespace. Input without leading digits yields 0.
func ParseLeadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if n > (1<<63-1-int64(c-'0'))/10 {
			break
		}
		n = n*10 + int64(c-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
