package player

import (
	"fmt"
	"math"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
)

// StatusSource is the part of the MPD client the service reads from.
type StatusSource interface {
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
}

// ArtResolver resolves artwork for a media reference.
type ArtResolver interface {
	Resolve(mediaRef string) (string, bool)
	Reset()
}

// Sweeper reclaims expired cache entries.
type Sweeper interface {
	Sweep() artwork.SweepReport
}

// dateLayouts are tried in order for the Date tag when it is not a bare year.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"20060102",
	time.RFC3339,
}

// Service assembles metadata for the player session.
// A Service owns one artwork session; Close tears it down.
type Service struct {
	mpd      StatusSource
	art      ArtResolver
	janitor  Sweeper
	musicDir string
	session  string

	closeOnce sync.Once
}

// NewService creates a new player service. art and janitor may be nil.
func NewService(src StatusSource, art ArtResolver, janitor Sweeper, musicDir string) *Service {
	return &Service{
		mpd:      src,
		art:      art,
		janitor:  janitor,
		musicDir: musicDir,
		session:  uuid.New().String(),
	}
}

// SessionID identifies this player session. Clients see a new value after
// the service restarts.
func (s *Service) SessionID() string {
	return s.session
}

// GetSnapshot reads MPD and returns the current metadata and status.
func (s *Service) GetSnapshot() (*Snapshot, error) {
	status, err := s.mpd.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read MPD status: %w", err)
	}

	song, err := s.mpd.CurrentSong()
	if err != nil {
		// Not fatal - nothing may be loaded
		log.Debug().Err(err).Msg("No current song")
		song = mpd.Attrs{}
	}

	return &Snapshot{
		SessionID: s.session,
		Metadata:  s.buildMetadata(status, song),
		Status:    buildStatus(status),
	}, nil
}

// GetMetadata returns metadata for the loaded song.
func (s *Service) GetMetadata() (*Metadata, error) {
	snap, err := s.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.Metadata, nil
}

// MediaRef converts an MPD file entry into the reference used for artwork.
// Stream URLs pass through, library paths are joined to the music directory.
func (s *Service) MediaRef(file string) string {
	if file == "" || hasScheme(file) || s.musicDir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.musicDir, filepath.FromSlash(file))
}

// Close resets the artwork session and runs a janitor pass.
// Only the first call does any work.
func (s *Service) Close() artwork.SweepReport {
	var report artwork.SweepReport
	s.closeOnce.Do(func() {
		if s.art != nil {
			s.art.Reset()
		}
		if s.janitor != nil {
			report = s.janitor.Sweep()
		}
		log.Info().Str("session", s.session).Msg("Player session closed")
	})
	return report
}

// buildMetadata converts MPD status and song to Metadata.
func (s *Service) buildMetadata(status, song mpd.Attrs) *Metadata {
	m := &Metadata{TrackID: NoTrackID}

	if pos, err := strconv.Atoi(status["song"]); err == nil && pos >= 0 && song["file"] != "" {
		m.TrackID = "/" + strconv.Itoa(pos)
	}

	if seconds, ok := songDuration(status, song); ok {
		m.Length = int64(math.Round(seconds * 1_000_000))
	}

	file := song["file"]

	// Title tag, else stream name, else the base name of the file
	m.Title = song["Title"]
	if m.Title == "" {
		m.Title = song["Name"]
	}
	if m.Title == "" && file != "" {
		m.Title = path.Base(file)
	}

	m.Album = song["Album"]
	m.Genre = song["Genre"]
	m.Artist = splitList(song["Artist"])
	m.AlbumArtist = splitList(song["AlbumArtist"])
	m.Composer = splitList(song["Composer"])
	m.TrackNumber = leadingInt(song["Track"])
	m.DiscNumber = leadingInt(song["Disc"])

	m.ArtistID = song["MUSICBRAINZ_ARTISTID"]
	m.TrackMBID = song["MUSICBRAINZ_TRACKID"]
	m.AlbumArtistID = song["MUSICBRAINZ_ALBUMARTISTID"]
	m.AlbumID = song["MUSICBRAINZ_ALBUMID"]
	m.ReleaseTrackID = song["MUSICBRAINZ_RELEASETRACKID"]
	m.WorkID = song["MUSICBRAINZ_WORKID"]

	m.ContentCreated = contentCreated(song["Date"])

	if file != "" {
		ref := s.MediaRef(file)
		m.URL = mediaURL(ref)

		if s.art != nil {
			if uri, ok := s.art.Resolve(ref); ok {
				m.ArtURL = uri
			}
		}
	}

	return m
}

// buildStatus converts MPD status to Status.
func buildStatus(status mpd.Attrs) *Status {
	st := &Status{
		PlaybackStatus: PlaybackStatusFromMPD(status["state"]),
		LoopStatus:     LoopStatusFromMPD(status["repeat"], status["single"]),
		Shuffle:        status["random"] == "1",
	}

	if vol, err := strconv.Atoi(status["volume"]); err == nil && vol >= 0 {
		st.Volume = float64(vol) / 100
	}

	if elapsed, err := strconv.ParseFloat(status["elapsed"], 64); err == nil {
		st.Position = int64(math.Round(elapsed * 1_000_000))
	}

	return st
}

// songDuration returns the song length in seconds from the most precise field available.
func songDuration(status, song mpd.Attrs) (float64, bool) {
	for _, v := range []string{status["duration"], song["duration"], song["Time"]} {
		if d, err := strconv.ParseFloat(v, 64); err == nil && d >= 0 {
			return d, true
		}
	}
	return 0, false
}

// splitList splits a multi-value tag joined with ", ".
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ", ")
}

// leadingInt parses the leading digits of v, so "3/12" yields 3.
func leadingInt(v string) int {
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(v[:end])
	return n
}

// contentCreated converts a Date tag to an ISO 8601 midnight UTC timestamp.
func contentCreated(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}

	if len(date) == 4 {
		year, err := strconv.Atoi(date)
		if err != nil || year == 0 {
			return ""
		}
		return fmt.Sprintf("%04d-01-01T00:00:00Z", year)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02") + "T00:00:00Z"
		}
	}
	return ""
}

// mediaURL returns ref unchanged when it already has a scheme, else its file URI.
func mediaURL(ref string) string {
	if hasScheme(ref) {
		return ref
	}
	uri, err := artwork.FileURI(ref)
	if err != nil {
		return ""
	}
	return uri
}

// hasScheme reports whether ref starts with a URI scheme followed by "://".
func hasScheme(ref string) bool {
	i := strings.Index(ref, "://")
	if i < 2 {
		return false
	}
	for j, r := range ref[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
