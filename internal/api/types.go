package api

// SessionView describes one active playback session in a transport-friendly
// format.
type SessionView struct {
	Viewer      string `json:"username"`
	Title       string `json:"title"`
	CurrentTime string `json:"current_time"`
	Kind        string `json:"media_type"`
	SessionKey  string `json:"session_key,omitempty"`
}

// StreamInfo extends the session view with source details for a single
// viewer's stream.
type StreamInfo struct {
	SessionView
	FilePath      string  `json:"file_path"`
	FrameRate     float64 `json:"frame_rate"`
	Show          string  `json:"show,omitempty"`
	SeasonNumber  string  `json:"season_number,omitempty"`
	EpisodeNumber string  `json:"episode_number,omitempty"`
}

// MediaItemView describes a single library entry.
type MediaItemView struct {
	Title     string  `json:"title"`
	Kind      string  `json:"media_type"`
	FilePath  string  `json:"file_path"`
	FrameRate float64 `json:"frame_rate"`
}

// VideoItem describes a produced clip with its embedded provenance metadata.
type VideoItem struct {
	Path              string `json:"file_path"`
	Title             string `json:"title"`
	OriginalStartTime string `json:"original_start_time"`
	Viewer            string `json:"username"`
	Show              string `json:"show,omitempty"`
	EpisodeNumber     string `json:"episode_number,omitempty"`
	SeasonNumber      string `json:"season_number,omitempty"`
}

// SessionListResponse wraps the active session listing.
type SessionListResponse struct {
	Sessions []SessionView `json:"sessions"`
}

// VideoListResponse wraps the clip catalog listing.
type VideoListResponse struct {
	Videos []VideoItem `json:"videos"`
}

// ImageListResponse wraps the snapshot catalog listing.
type ImageListResponse struct {
	Images []string `json:"images"`
}

// DeleteResponse reports the outcome of a deletion request.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Path    string `json:"path"`
}

// ClipCreateRequest asks for a trim of the viewer's current stream.
type ClipCreateRequest struct {
	Viewer string `json:"username"`
	Start  string `json:"start_time"`
	End    string `json:"end_time"`
}

// SnapshotRequest asks for still frames at the viewer's current position.
type SnapshotRequest struct {
	Viewer string `json:"username"`
	Frames int    `json:"num_frames"`
}

// TimeAddRequest shifts an HH:MM:SS timestamp by a signed second count.
type TimeAddRequest struct {
	Time    string `json:"current_time"`
	Seconds int64  `json:"seconds"`
}

// TimeAddResponse carries the shifted timestamp.
type TimeAddResponse struct {
	Result string `json:"result"`
}

// DependencyStatus captures availability of an external tool.
type DependencyStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running        bool               `json:"running"`
	PID            int                `json:"pid"`
	LockFilePath   string             `json:"lock_file_path"`
	MediaDir       string             `json:"media_dir"`
	MediaFreeBytes uint64             `json:"media_free_bytes,omitempty"`
	Dependencies   []DependencyStatus `json:"dependencies"`
}
