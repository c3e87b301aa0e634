// Package player builds MPRIS-style metadata for the song loaded in MPD.
package player

// Playback status values reported to clients.
const (
	StatusPlaying = "Playing"
	StatusPaused  = "Paused"
	StatusStopped = "Stopped"
)

// Loop status values reported to clients.
const (
	LoopNone     = "None"
	LoopTrack    = "Track"
	LoopPlaylist = "Playlist"
)

// NoTrackID is the track id used when nothing is loaded.
const NoTrackID = "/noplaylist"

// Metadata describes the loaded song using MPRIS/xesam keys.
type Metadata struct {
	TrackID        string   `json:"mpris:trackid"`
	Length         int64    `json:"mpris:length,omitempty"` // microseconds
	ArtURL         string   `json:"mpris:artUrl,omitempty"`
	Title          string   `json:"xesam:title,omitempty"`
	Album          string   `json:"xesam:album,omitempty"`
	Genre          string   `json:"xesam:genre,omitempty"`
	Artist         []string `json:"xesam:artist,omitempty"`
	AlbumArtist    []string `json:"xesam:albumArtist,omitempty"`
	Composer       []string `json:"xesam:composer,omitempty"`
	TrackNumber    int      `json:"xesam:trackNumber,omitempty"`
	DiscNumber     int      `json:"xesam:discNumber,omitempty"`
	URL            string   `json:"xesam:url,omitempty"`
	ContentCreated string   `json:"xesam:contentCreated,omitempty"`

	// MusicBrainz identifiers
	ArtistID       string `json:"mb:artistId,omitempty"`
	TrackMBID      string `json:"mb:trackId,omitempty"`
	AlbumArtistID  string `json:"mb:albumArtistId,omitempty"`
	AlbumID        string `json:"mb:albumId,omitempty"`
	ReleaseTrackID string `json:"mb:releaseTrackId,omitempty"`
	WorkID         string `json:"mb:workId,omitempty"`
}

// Status is the playback state that accompanies Metadata.
type Status struct {
	PlaybackStatus string  `json:"PlaybackStatus"`
	LoopStatus     string  `json:"LoopStatus"`
	Shuffle        bool    `json:"Shuffle"`
	Volume         float64 `json:"Volume"`   // 0.0 - 1.0
	Position       int64   `json:"Position"` // microseconds
}

// Snapshot is what gets pushed to clients on every change.
type Snapshot struct {
	SessionID string    `json:"sessionId"`
	Metadata  *Metadata `json:"metadata"`
	Status    *Status   `json:"status"`
}

// PlaybackStatusFromMPD maps MPD's state field.
func PlaybackStatusFromMPD(state string) string {
	switch state {
	case "play":
		return StatusPlaying
	case "pause":
		return StatusPaused
	default:
		return StatusStopped
	}
}

// LoopStatusFromMPD maps MPD's repeat and single flags.
func LoopStatusFromMPD(repeat, single string) string {
	if repeat != "1" {
		return LoopNone
	}
	if single == "1" {
		return LoopTrack
	}
	return LoopPlaylist
}
