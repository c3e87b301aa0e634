package player

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fhs/gompd/v2/mpd"

	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
)

// MockMPDClient implements the StatusSource interface for testing.
type MockMPDClient struct {
	status    mpd.Attrs
	song      mpd.Attrs
	statusErr error
	songErr   error
}

func (m *MockMPDClient) Status() (mpd.Attrs, error) {
	return m.status, m.statusErr
}

func (m *MockMPDClient) CurrentSong() (mpd.Attrs, error) {
	return m.song, m.songErr
}

// MockResolver implements the ArtResolver interface for testing.
type MockResolver struct {
	uri        string
	refs       []string
	resetCalls int
}

func (m *MockResolver) Resolve(mediaRef string) (string, bool) {
	m.refs = append(m.refs, mediaRef)
	return m.uri, m.uri != ""
}

func (m *MockResolver) Reset() {
	m.resetCalls++
}

// MockSweeper implements the Sweeper interface for testing.
type MockSweeper struct {
	calls int
}

func (m *MockSweeper) Sweep() artwork.SweepReport {
	m.calls++
	return artwork.SweepReport{Scanned: 3, Removed: 1}
}

func TestGetSnapshot_FullSong(t *testing.T) {
	src := &MockMPDClient{
		status: mpd.Attrs{
			"state":    "play",
			"song":     "4",
			"duration": "245.317",
			"elapsed":  "12.5",
			"volume":   "80",
			"repeat":   "1",
			"single":   "0",
			"random":   "1",
		},
		song: mpd.Attrs{
			"file":                 "Artist/Album/05 Song.flac",
			"Title":                "Song",
			"Album":                "Album",
			"Genre":                "Jazz",
			"Artist":               "A, B",
			"AlbumArtist":          "A",
			"Composer":             "C",
			"Track":                "5/12",
			"Disc":                 "1",
			"Date":                 "1959",
			"MUSICBRAINZ_TRACKID":  "mb-track",
			"MUSICBRAINZ_ALBUMID":  "mb-album",
			"MUSICBRAINZ_ARTISTID": "mb-artist",
		},
	}
	art := &MockResolver{uri: "file:///cache/abc.jpg"}
	svc := NewService(src, art, nil, "/srv/music")

	snap, err := svc.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot() error: %v", err)
	}

	m := snap.Metadata
	if m.TrackID != "/4" {
		t.Errorf("expected trackid /4, got %q", m.TrackID)
	}
	if m.Length != 245317000 {
		t.Errorf("expected length 245317000, got %d", m.Length)
	}
	if m.Title != "Song" || m.Album != "Album" || m.Genre != "Jazz" {
		t.Errorf("unexpected text fields: %+v", m)
	}
	if !reflect.DeepEqual(m.Artist, []string{"A", "B"}) {
		t.Errorf("expected artists [A B], got %v", m.Artist)
	}
	if m.TrackNumber != 5 || m.DiscNumber != 1 {
		t.Errorf("expected track 5 disc 1, got %d/%d", m.TrackNumber, m.DiscNumber)
	}
	if m.ContentCreated != "1959-01-01T00:00:00Z" {
		t.Errorf("unexpected contentCreated %q", m.ContentCreated)
	}
	if m.URL != "file:///srv/music/Artist/Album/05%20Song.flac" {
		t.Errorf("unexpected url %q", m.URL)
	}
	if m.ArtURL != "file:///cache/abc.jpg" {
		t.Errorf("unexpected artUrl %q", m.ArtURL)
	}
	if m.TrackMBID != "mb-track" || m.AlbumID != "mb-album" || m.ArtistID != "mb-artist" {
		t.Errorf("unexpected MusicBrainz ids: %+v", m)
	}
	if len(art.refs) != 1 || art.refs[0] != "/srv/music/Artist/Album/05 Song.flac" {
		t.Errorf("resolver called with %v", art.refs)
	}

	st := snap.Status
	if st.PlaybackStatus != StatusPlaying || st.LoopStatus != LoopPlaylist || !st.Shuffle {
		t.Errorf("unexpected status %+v", st)
	}
	if st.Volume != 0.8 {
		t.Errorf("expected volume 0.8, got %v", st.Volume)
	}
	if st.Position != 12500000 {
		t.Errorf("expected position 12500000, got %d", st.Position)
	}
}

func TestGetSnapshot_Stream(t *testing.T) {
	src := &MockMPDClient{
		status: mpd.Attrs{"state": "play", "song": "0"},
		song: mpd.Attrs{
			"file": "https://www.youtube.com/watch?v=abc123XYZ_-",
			"Name": "Some Stream",
		},
	}
	art := &MockResolver{uri: "https://i1.ytimg.com/vi/abc123XYZ_-/hqdefault.jpg"}
	svc := NewService(src, art, nil, "/srv/music")

	m, err := svc.GetMetadata()
	if err != nil {
		t.Fatalf("GetMetadata() error: %v", err)
	}
	if m.Title != "Some Stream" {
		t.Errorf("expected stream name as title, got %q", m.Title)
	}
	if m.URL != "https://www.youtube.com/watch?v=abc123XYZ_-" {
		t.Errorf("stream URL should pass through, got %q", m.URL)
	}
	if art.refs[0] != "https://www.youtube.com/watch?v=abc123XYZ_-" {
		t.Errorf("stream ref should not be joined to music dir, got %q", art.refs[0])
	}
	if m.Length != 0 {
		t.Errorf("expected no length for stream, got %d", m.Length)
	}
}

func TestGetSnapshot_NothingLoaded(t *testing.T) {
	src := &MockMPDClient{
		status:  mpd.Attrs{"state": "stop", "volume": "-1"},
		songErr: errors.New("no song"),
	}
	art := &MockResolver{uri: "file:///x.jpg"}
	svc := NewService(src, art, nil, "/srv/music")

	snap, err := svc.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot() error: %v", err)
	}
	if snap.Metadata.TrackID != NoTrackID {
		t.Errorf("expected %s, got %s", NoTrackID, snap.Metadata.TrackID)
	}
	if snap.Metadata.ArtURL != "" || len(art.refs) != 0 {
		t.Error("resolver should not be called without a file")
	}
	if snap.Status.PlaybackStatus != StatusStopped || snap.Status.Volume != 0 {
		t.Errorf("unexpected status %+v", snap.Status)
	}
}

func TestGetSnapshot_StatusError(t *testing.T) {
	svc := NewService(&MockMPDClient{statusErr: errors.New("connection refused")}, nil, nil, "")

	if _, err := svc.GetSnapshot(); err == nil {
		t.Error("expected error when MPD status fails")
	}
}

func TestTitleFallsBackToFileName(t *testing.T) {
	src := &MockMPDClient{
		status: mpd.Attrs{"song": "2"},
		song:   mpd.Attrs{"file": "Various/untagged track.mp3", "Time": "61"},
	}
	m, err := NewService(src, nil, nil, "").GetMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "untagged track.mp3" {
		t.Errorf("expected file name title, got %q", m.Title)
	}
	if m.Length != 61000000 {
		t.Errorf("expected length from Time, got %d", m.Length)
	}
}

func TestMediaRef(t *testing.T) {
	svc := NewService(nil, nil, nil, "/srv/music")

	tests := []struct {
		file string
		want string
	}{
		{"", ""},
		{"A/B/01.flac", "/srv/music/A/B/01.flac"},
		{"/abs/01.flac", "/abs/01.flac"},
		{"http://radio/stream", "http://radio/stream"},
		{"smb://nas/share/01.flac", "smb://nas/share/01.flac"},
		{"Live: 1999/01.flac", "/srv/music/Live: 1999/01.flac"},
	}
	for _, tt := range tests {
		if got := svc.MediaRef(tt.file); got != tt.want {
			t.Errorf("MediaRef(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}

	if got := NewService(nil, nil, nil, "").MediaRef("A/01.flac"); got != "A/01.flac" {
		t.Errorf("MediaRef without music dir = %q", got)
	}
}

func TestContentCreated(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"0000":       "",
		"abcd":       "",
		"1999":       "1999-01-01T00:00:00Z",
		"2003-07-14": "2003-07-14T00:00:00Z",
		"2003-07":    "2003-07-01T00:00:00Z",
		"20030714":   "2003-07-14T00:00:00Z",
		"2003/07/14": "2003-07-14T00:00:00Z",
		"July 2003":  "",
	}
	for in, want := range tests {
		if got := contentCreated(in); got != want {
			t.Errorf("contentCreated(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{"": 0, "7": 7, "3/12": 3, "x": 0, "12b": 12}
	for in, want := range tests {
		if got := leadingInt(in); got != want {
			t.Errorf("leadingInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestClose(t *testing.T) {
	art := &MockResolver{}
	sweeper := &MockSweeper{}
	svc := NewService(&MockMPDClient{}, art, sweeper, "")

	report := svc.Close()
	if report.Removed != 1 {
		t.Errorf("expected sweep report to be returned, got %+v", report)
	}
	svc.Close()

	if art.resetCalls != 1 {
		t.Errorf("expected 1 reset, got %d", art.resetCalls)
	}
	if sweeper.calls != 1 {
		t.Errorf("expected 1 sweep, got %d", sweeper.calls)
	}
}

func TestSessionID(t *testing.T) {
	a := NewService(&MockMPDClient{}, nil, nil, "")
	b := NewService(&MockMPDClient{}, nil, nil, "")

	if a.SessionID() == "" {
		t.Fatal("SessionID should not be empty")
	}
	if a.SessionID() == b.SessionID() {
		t.Error("each service should get its own session id")
	}

	snap, err := a.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.SessionID != a.SessionID() {
		t.Errorf("snapshot session = %q, want %q", snap.SessionID, a.SessionID())
	}
}
