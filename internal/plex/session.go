package plex

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clipplex/internal/timecode"
)

// Media kinds reported by the Plex session directory. The set is open ended;
// anything unrecognized is carried through as-is.
const (
	KindMovie   = "movie"
	KindEpisode = "episode"
	KindUnknown = "unknown"
)

const defaultFrameRate = 24.0

// Session is a normalized snapshot of one viewer's playback state at poll
// time. Two polls of the same playback produce two independent values;
// a Session is never mutated after construction.
type Session struct {
	Viewer       string
	SessionKey   string
	ViewOffsetMS int64
	FilePath     string
	FrameRate    float64
	Title        string
	Kind         string

	// Episode-only metadata, empty for other kinds.
	Show         string
	SeasonIndex  string
	EpisodeIndex string
}

// CurrentTime renders the playback offset as an HH:MM:SS string.
func (s Session) CurrentTime() string {
	return timecode.FromMilliseconds(s.ViewOffsetMS)
}

// IsEpisode reports whether the session carries episodic metadata.
func (s Session) IsEpisode() bool {
	return s.Kind == KindEpisode
}

// MediaItem is the normalized detail record for a single library entry.
type MediaItem struct {
	Title     string
	Kind      string
	FilePath  string
	FrameRate float64
}

// XML document shape returned by the Plex session and metadata endpoints.
// Repeated child tags decode into slices; the normalizer always takes the
// first element when one is present.
type mediaContainer struct {
	XMLName xml.Name    `xml:"MediaContainer"`
	Videos  []videoNode `xml:"Video"`
}

type videoNode struct {
	Title            string      `xml:"title,attr"`
	Type             string      `xml:"type,attr"`
	SessionKey       string      `xml:"sessionKey,attr"`
	ViewOffset       string      `xml:"viewOffset,attr"`
	GrandparentTitle string      `xml:"grandparentTitle,attr"`
	ParentIndex      string      `xml:"parentIndex,attr"`
	Index            string      `xml:"index,attr"`
	Users            []userNode  `xml:"User"`
	Media            []mediaNode `xml:"Media"`
}

type userNode struct {
	Title string `xml:"title,attr"`
}

type mediaNode struct {
	FrameRate string     `xml:"frameRate,attr"`
	Parts     []partNode `xml:"Part"`
}

type partNode struct {
	File string `xml:"file,attr"`
}

var errNoViewer = errors.New("session node has no viewer")

// normalizeSession flattens one Video node into a Session. A node without a
// viewer or with an unparsable playback offset is malformed; callers skip it.
// Missing numeric attributes default instead of failing.
func normalizeSession(node videoNode) (Session, error) {
	if len(node.Users) == 0 || strings.TrimSpace(node.Users[0].Title) == "" {
		return Session{}, errNoViewer
	}

	offset := int64(0)
	if trimmed := strings.TrimSpace(node.ViewOffset); trimmed != "" {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Session{}, fmt.Errorf("parse viewOffset %q: %w", node.ViewOffset, err)
		}
		if parsed < 0 {
			parsed = 0
		}
		offset = parsed
	}

	session := Session{
		Viewer:       node.Users[0].Title,
		SessionKey:   node.SessionKey,
		ViewOffsetMS: offset,
		FilePath:     firstPartFile(node.Media),
		FrameRate:    firstFrameRate(node.Media),
		Title:        displayTitle(node),
		Kind:         kindOf(node.Type),
	}
	if session.Kind == KindEpisode {
		session.Show = node.GrandparentTitle
		session.SeasonIndex = node.ParentIndex
		session.EpisodeIndex = node.Index
	}
	return session, nil
}

func normalizeMediaItem(node videoNode) MediaItem {
	return MediaItem{
		Title:     displayTitle(node),
		Kind:      kindOf(node.Type),
		FilePath:  firstPartFile(node.Media),
		FrameRate: firstFrameRate(node.Media),
	}
}

// firstPartFile extracts the file attribute of the first part of the first
// media entry. An empty result signals a session with no playable file.
func firstPartFile(media []mediaNode) string {
	if len(media) == 0 || len(media[0].Parts) == 0 {
		return ""
	}
	return media[0].Parts[0].File
}

func firstFrameRate(media []mediaNode) float64 {
	if len(media) == 0 {
		return defaultFrameRate
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(media[0].FrameRate), 64)
	if err != nil || parsed <= 0 {
		return defaultFrameRate
	}
	return parsed
}

// displayTitle formats an episode as "{show} - {episode title}" when a show
// name is present; every other kind keeps the bare title.
func displayTitle(node videoNode) string {
	if node.Type == KindEpisode && node.GrandparentTitle != "" {
		return node.GrandparentTitle + " - " + node.Title
	}
	return node.Title
}

func kindOf(value string) string {
	if strings.TrimSpace(value) == "" {
		return KindUnknown
	}
	return value
}
