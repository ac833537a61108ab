package proto

import (
	"blockfall/highscore"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Entry fields on the wire. Seeds travel as strings since a Struct number is a
// float64 and can't hold every int64.
const (
	fieldID        = "id"
	fieldName      = "name"
	fieldScore     = "score"
	fieldLevel     = "level"
	fieldLines     = "lines"
	fieldSeed      = "seed"
	fieldCreatedAt = "created_at"
)

func EntryToStruct(e highscore.Entry) (*structpb.Struct, error) {
	m := map[string]any{
		fieldName:  e.Name,
		fieldScore: e.Score,
		fieldLevel: e.Level,
		fieldLines: e.Lines,
		fieldSeed:  strconv.FormatInt(e.Seed, 10),
	}
	if e.ID != "" {
		m[fieldID] = e.ID
	}
	if !e.CreatedAt.IsZero() {
		m[fieldCreatedAt] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("proto: encode entry: %w", err)
	}
	return s, nil
}

func StructToEntry(s *structpb.Struct) (highscore.Entry, error) {
	f := s.GetFields()
	e := highscore.Entry{
		ID:   f[fieldID].GetStringValue(),
		Name: f[fieldName].GetStringValue(),
	}
	var err error
	if e.Score, err = intField(f, fieldScore); err != nil {
		return e, err
	}
	if e.Level, err = intField(f, fieldLevel); err != nil {
		return e, err
	}
	if e.Lines, err = intField(f, fieldLines); err != nil {
		return e, err
	}
	if v := f[fieldSeed].GetStringValue(); v != "" {
		if e.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return e, fmt.Errorf("proto: decode %s: %w", fieldSeed, err)
		}
	}
	if v := f[fieldCreatedAt].GetStringValue(); v != "" {
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return e, fmt.Errorf("proto: decode %s: %w", fieldCreatedAt, err)
		}
	}
	return e, nil
}

func intField(f map[string]*structpb.Value, name string) (int, error) {
	v, ok := f[name]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("proto: decode %s: not a number", name)
	}
	if n.NumberValue != float64(int(n.NumberValue)) {
		return 0, fmt.Errorf("proto: decode %s: %v is not an integer", name, n.NumberValue)
	}
	return int(n.NumberValue), nil
}

func EntriesToList(entries []highscore.Entry) (*structpb.ListValue, error) {
	l := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(entries))}
	for _, e := range entries {
		s, err := EntryToStruct(e)
		if err != nil {
			return nil, err
		}
		l.Values = append(l.Values, structpb.NewStructValue(s))
	}
	return l, nil
}

func ListToEntries(l *structpb.ListValue) ([]highscore.Entry, error) {
	entries := make([]highscore.Entry, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("proto: decode entry %d: not a struct", i)
		}
		e, err := StructToEntry(s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
