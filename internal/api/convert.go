package api

import (
	"clipplex/internal/catalog"
	"clipplex/internal/plex"
)

// FromSession converts a normalized session into its listing view.
func FromSession(session plex.Session) SessionView {
	return SessionView{
		Viewer:      session.Viewer,
		Title:       session.Title,
		CurrentTime: session.CurrentTime(),
		Kind:        session.Kind,
		SessionKey:  session.SessionKey,
	}
}

// FromSessions converts a slice of sessions into listing views.
func FromSessions(sessions []plex.Session) []SessionView {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, FromSession(session))
	}
	return out
}

// FromStreamSession converts a session into the single-viewer stream view.
func FromStreamSession(session plex.Session) StreamInfo {
	return StreamInfo{
		SessionView:   FromSession(session),
		FilePath:      session.FilePath,
		FrameRate:     session.FrameRate,
		Show:          session.Show,
		SeasonNumber:  session.SeasonIndex,
		EpisodeNumber: session.EpisodeIndex,
	}
}

// FromMediaItem converts a library detail record.
func FromMediaItem(item plex.MediaItem) MediaItemView {
	return MediaItemView{
		Title:     item.Title,
		Kind:      item.Kind,
		FilePath:  item.FilePath,
		FrameRate: item.FrameRate,
	}
}

// FromCatalogVideo converts a catalog record into its API representation.
func FromCatalogVideo(video catalog.Video) VideoItem {
	return VideoItem{
		Path:              video.Path,
		Title:             video.Title,
		OriginalStartTime: video.OriginalStartTime,
		Viewer:            video.Viewer,
		Show:              video.Show,
		EpisodeNumber:     video.EpisodeNumber,
		SeasonNumber:      video.SeasonNumber,
	}
}

// FromCatalogVideos converts a catalog listing into API DTOs.
func FromCatalogVideos(videos []catalog.Video) []VideoItem {
	if len(videos) == 0 {
		return nil
	}
	out := make([]VideoItem, 0, len(videos))
	for _, video := range videos {
		out = append(out, FromCatalogVideo(video))
	}
	return out
}
