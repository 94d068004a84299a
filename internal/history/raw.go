package history

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Variant identifies which export schema a raw record follows.
type Variant int

const (
	VariantUnknown Variant = iota
	// VariantSimple is the account-data export (StreamingHistory*.json).
	VariantSimple
	// VariantExtended is the extended streaming history (endsong_*.json).
	VariantExtended
)

func (v Variant) String() string {
	switch v {
	case VariantSimple:
		return "simple"
	case VariantExtended:
		return "extended"
	}
	return "unknown"
}

// Canonical field names.
const (
	FieldEndTime    = "endTime"
	FieldArtistName = "artistName"
	FieldTrackName  = "trackName"
	FieldMsPlayed   = "msPlayed"
)

var simpleFields = []string{FieldEndTime, FieldArtistName, FieldTrackName, FieldMsPlayed}

var extendedFields = []string{
	"ts",
	"master_metadata_track_name",
	"master_metadata_album_artist_name",
	"ms_played",
}

var renames = map[string]string{
	"master_metadata_track_name":        FieldTrackName,
	"master_metadata_album_artist_name": FieldArtistName,
	"ts":                                FieldEndTime,
	"ms_played":                         FieldMsPlayed,
}

// RawRecord is one object of an uploaded history file, keyed by field name.
type RawRecord map[string]json.RawMessage

func (r RawRecord) hasAll(fields []string) bool {
	for _, f := range fields {
		if _, ok := r[f]; !ok {
			return false
		}
	}
	return true
}

// Variant reports the schema the record satisfies. A record carrying every
// field of both variants is treated as simple.
func (r RawRecord) Variant() Variant {
	switch {
	case r.hasAll(simpleFields):
		return VariantSimple
	case r.hasAll(extendedFields):
		return VariantExtended
	}
	return VariantUnknown
}

// Canonicalize renames extended field names to the canonical schema. Names
// already canonical pass through, so canonicalizing twice is a no-op. When a
// record carries both spellings the canonical value is kept.
func Canonicalize(r RawRecord) RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		if _, ok := renames[k]; !ok {
			out[k] = v
		}
	}
	for k, v := range r {
		to, ok := renames[k]
		if !ok {
			continue
		}
		if _, exists := out[to]; !exists {
			out[to] = v
		}
	}
	return out
}

// Record is a canonical event before feature derivation.
type Record struct {
	ArtistName string
	TrackName  string
	EndTime    string
	MsPlayed   int64
}

// NormalizeArtist lowercases and trims an artist name. Lineup matching and
// canonical events share it.
func NormalizeArtist(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func decodeString(raw json.RawMessage) (string, bool, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, err
	}
	if s == nil {
		return "", false, nil
	}
	return *s, true, nil
}

func decodeMs(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	ms, err := n.Int64()
	if err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative value %d", ms)
	}
	return ms, nil
}

// decodeRecord reads a canonicalized raw record. music is false for records
// with neither a track nor an artist, which extended exports emit for
// podcast episodes.
func decodeRecord(r RawRecord) (rec Record, music bool, err error) {
	rec.EndTime, _, err = decodeString(r[FieldEndTime])
	if err != nil {
		return rec, false, fmt.Errorf("%s: %w", FieldEndTime, err)
	}

	artist, hasArtist, err := decodeString(r[FieldArtistName])
	if err != nil {
		return rec, false, fmt.Errorf("%s: %w", FieldArtistName, err)
	}
	track, hasTrack, err := decodeString(r[FieldTrackName])
	if err != nil {
		return rec, false, fmt.Errorf("%s: %w", FieldTrackName, err)
	}

	rec.MsPlayed, err = decodeMs(r[FieldMsPlayed])
	if err != nil {
		return rec, false, fmt.Errorf("%s: %w", FieldMsPlayed, err)
	}

	rec.ArtistName = NormalizeArtist(artist)
	rec.TrackName = track
	return rec, hasArtist || hasTrack, nil
}
