package history

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleFile = `[
  {"endTime": "2022-03-01 10:15", "artistName": "Tame Impala", "trackName": "Borderline", "msPlayed": 120000},
  {"endTime": "2022-03-02 22:40", "artistName": " Drake ", "trackName": "Passionfruit", "msPlayed": 60000}
]`

const extendedFile = `[
  {"ts": "2022-03-01T10:15:00Z", "username": "u", "platform": "ios",
   "master_metadata_track_name": "Borderline", "master_metadata_album_artist_name": "Tame Impala",
   "master_metadata_album_album_name": "The Slow Rush", "ms_played": 120000, "skipped": null},
  {"ts": "2022-03-02T22:40:00Z", "master_metadata_track_name": "Passionfruit",
   "master_metadata_album_artist_name": "Drake", "ms_played": 60000, "shuffle": true}
]`

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"StreamingHistory0.json", true},
		{"MyData/StreamingHistory_music_1.json", true},
		{"endsong_3.json", true},
		{"endsong_3.JSON", true},
		{"Userdata.json", false},
		{"StreamingHistory0.csv", false},
		{"Playlist1.json", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsCandidate(tc.name, nil), tc.name)
	}

	assert.True(t, IsCandidate("Audio_2021.json", []string{"Audio_"}))
}

func TestIngestVariantEquivalence(t *testing.T) {
	simple, err := Ingest([]File{{Name: "StreamingHistory0.json", Data: []byte(simpleFile)}}, IngestOptions{})
	require.NoError(t, err)
	extended, err := Ingest([]File{{Name: "endsong_0.json", Data: []byte(extendedFile)}}, IngestOptions{})
	require.NoError(t, err)

	se, err := Derive(simple.Records, 0)
	require.NoError(t, err)
	ee, err := Derive(extended.Records, 0)
	require.NoError(t, err)
	assert.Equal(t, se, ee)
}

func TestIngestNormalizesArtist(t *testing.T) {
	batch, err := Ingest([]File{{Name: "StreamingHistory0.json", Data: []byte(simpleFile)}}, IngestOptions{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "tame impala", batch.Records[0].ArtistName)
	assert.Equal(t, "drake", batch.Records[1].ArtistName)
	assert.Equal(t, "Passionfruit", batch.Records[1].TrackName)
}

func TestIngestNoValidData(t *testing.T) {
	_, err := Ingest([]File{{Name: "StreamingHistory0.json", Data: []byte(`[{"foo": 1, "bar": 2}]`)}}, IngestOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidData))
}

func TestIngestDropsInvalidFiles(t *testing.T) {
	files := []File{
		{Name: "StreamingHistory0.json", Data: []byte(simpleFile)},
		{Name: "StreamingHistory1.json", Data: []byte(`[{"foo": 1, "bar": 2}]`)},
		{Name: "StreamingHistory2.json", Data: []byte(`{not json`)},
		{Name: "StreamingHistory3.json", Data: []byte(`[]`)},
		{Name: "StreamingHistory4.json", Data: []byte(`[{"endTime": "2022-01-01 00:00", "artistName": "a", "trackName": "b", "msPlayed": -5}]`)},
		{Name: "Identity.json", Data: []byte(`{}`)},
	}
	batch, err := Ingest(files, IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"StreamingHistory0.json"}, batch.Report.Accepted)
	assert.Equal(t, []string{"Identity.json"}, batch.Report.Ignored)
	require.Len(t, batch.Report.Dropped, 4)
	assert.Equal(t, "StreamingHistory1.json", batch.Report.Dropped[0].File)
	assert.Equal(t, 2, batch.Report.Records)
}

func TestIngestRejectsMixedFile(t *testing.T) {
	mixed := `[
	  {"endTime": "2022-03-01 10:15", "artistName": "a", "trackName": "b", "msPlayed": 1},
	  {"endTime": "2022-03-01 10:16", "artistName": "a"}
	]`
	_, err := Ingest([]File{{Name: "StreamingHistory0.json", Data: []byte(mixed)}}, IngestOptions{})
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestIngestDedupe(t *testing.T) {
	files := []File{
		{Name: "StreamingHistory0.json", Data: []byte(simpleFile)},
		{Name: "StreamingHistory1.json", Data: []byte(simpleFile)},
	}

	batch, err := Ingest(files, IngestOptions{Dedupe: true})
	require.NoError(t, err)
	assert.Len(t, batch.Records, 2)
	assert.Equal(t, 2, batch.Report.Duplicates)

	batch, err = Ingest(files, IngestOptions{})
	require.NoError(t, err)
	assert.Len(t, batch.Records, 4)
}

func TestIngestSkipsNonMusic(t *testing.T) {
	podcast := `[
	  {"ts": "2022-03-01T10:15:00Z", "master_metadata_track_name": null,
	   "master_metadata_album_artist_name": null, "ms_played": 900000,
	   "episode_name": "Ep 1", "episode_show_name": "Show"},
	  {"ts": "2022-03-01T11:15:00Z", "master_metadata_track_name": "Song",
	   "master_metadata_album_artist_name": "Band", "ms_played": 1000}
	]`
	batch, err := Ingest([]File{{Name: "endsong_0.json", Data: []byte(podcast)}}, IngestOptions{})
	require.NoError(t, err)
	assert.Len(t, batch.Records, 1)
	assert.Equal(t, 1, batch.Report.NonMusic)
}

func TestCanonicalizeIdempotent(t *testing.T) {
	var raw []RawRecord
	require.NoError(t, json.Unmarshal([]byte(extendedFile), &raw))

	for _, r := range raw {
		once := Canonicalize(r)
		twice := Canonicalize(once)
		assert.Equal(t, once, twice)
		assert.Equal(t, VariantSimple, once.Variant())
		assert.NotContains(t, once, "ts")
	}
}

func TestCanonicalizePrefersCanonicalName(t *testing.T) {
	r := RawRecord{
		"endTime": json.RawMessage(`"2022-01-01 00:00"`),
		"ts":      json.RawMessage(`"2021-01-01T00:00:00Z"`),
	}
	out := Canonicalize(r)
	assert.JSONEq(t, `"2022-01-01 00:00"`, string(out[FieldEndTime]))
	assert.Len(t, out, 1)
}

func TestVariant(t *testing.T) {
	var raw []RawRecord
	require.NoError(t, json.Unmarshal([]byte(simpleFile), &raw))
	assert.Equal(t, VariantSimple, raw[0].Variant())

	var ext []RawRecord
	require.NoError(t, json.Unmarshal([]byte(extendedFile), &ext))
	assert.Equal(t, VariantExtended, ext[0].Variant())

	assert.Equal(t, VariantUnknown, RawRecord{"foo": nil, "bar": nil}.Variant())
}
