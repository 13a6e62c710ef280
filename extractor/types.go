package extractor

// SubtitleTrack is one downloadable rendition of a caption track.
type SubtitleTrack struct {
	URL  string `json:"url"`
	Ext  string `json:"ext"`
	Name string `json:"name,omitempty"`
}

// Format is one downloadable media rendition.
type Format struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
}

// VideoInfo is the subset of yt-dlp's --dump-json document the summarizer
// reads. Both caption maps are keyed by language code.
type VideoInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Duration          float64                    `json:"duration"`
	WebpageURL        string                     `json:"webpage_url"`
	Formats           []Format                   `json:"formats"`
	Subtitles         map[string][]SubtitleTrack `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleTrack `json:"automatic_captions"`
}

// Playable reports whether yt-dlp listed any media formats. A video without
// formats is unavailable even when caption metadata is present.
func (v *VideoInfo) Playable() bool {
	return v != nil && len(v.Formats) > 0
}
