package media

import "strconv"

// Codec type values as reported by ffprobe
const (
	StreamTypeAudio    = "audio"
	StreamTypeVideo    = "video"
	StreamTypeSubtitle = "subtitle"
	StreamTypeData     = "data"
)

// Report is the parsed output of an ffprobe inspection. Field names and
// string-typed numerics follow the ffprobe JSON writer, which emits
// durations, sizes and rates as strings.
type Report struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single elementary stream within a container
type Stream struct {
	Index         int        `json:"index"`
	CodecName     string     `json:"codec_name,omitempty"`
	CodecLongName string     `json:"codec_long_name,omitempty"`
	CodecType     string     `json:"codec_type"`
	Width         int        `json:"width,omitempty"`
	Height        int        `json:"height,omitempty"`
	PixFmt        string     `json:"pix_fmt,omitempty"`
	AvgFrameRate  string     `json:"avg_frame_rate,omitempty"`
	Channels      int        `json:"channels,omitempty"`
	ChannelLayout string     `json:"channel_layout,omitempty"`
	SampleRate    string     `json:"sample_rate,omitempty"`
	BitRate       string     `json:"bit_rate,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	Tags          StreamTags `json:"tags,omitempty"`
}

// StreamTags carries the subset of per-stream tags the service reports
type StreamTags struct {
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Format describes the container
type Format struct {
	Filename       string `json:"filename,omitempty"`
	NBStreams      int    `json:"nb_streams,omitempty"`
	FormatName     string `json:"format_name,omitempty"`
	FormatLongName string `json:"format_long_name,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Size           string `json:"size,omitempty"`
	BitRate        string `json:"bit_rate,omitempty"`
}

// HasAudio returns true if any stream carries audio
func (r *Report) HasAudio() bool {
	for _, s := range r.Streams {
		if s.CodecType == StreamTypeAudio {
			return true
		}
	}
	return false
}

// HasVideo returns true if any stream carries video
func (r *Report) HasVideo() bool {
	for _, s := range r.Streams {
		if s.CodecType == StreamTypeVideo {
			return true
		}
	}
	return false
}

// AudioStreams returns all audio streams in container order
func (r *Report) AudioStreams() []Stream {
	return r.streamsOfType(StreamTypeAudio)
}

// VideoStreams returns all video streams in container order
func (r *Report) VideoStreams() []Stream {
	return r.streamsOfType(StreamTypeVideo)
}

func (r *Report) streamsOfType(codecType string) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if s.CodecType == codecType {
			out = append(out, s)
		}
	}
	return out
}

// FirstAudio returns the first audio stream, or nil if none exists
func (r *Report) FirstAudio() *Stream {
	return r.firstOfType(StreamTypeAudio)
}

// FirstVideo returns the first video stream, or nil if none exists
func (r *Report) FirstVideo() *Stream {
	return r.firstOfType(StreamTypeVideo)
}

func (r *Report) firstOfType(codecType string) *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecType {
			return &r.Streams[i]
		}
	}
	return nil
}

// DurationSeconds returns the container duration in seconds. The format
// duration is preferred; when the container does not report one (common for
// raw streams) the longest stream duration is used. Returns 0 when no
// duration is known.
func (r *Report) DurationSeconds() float64 {
	if d, ok := parseSeconds(r.Format.Duration); ok {
		return d
	}
	var longest float64
	for _, s := range r.Streams {
		if d, ok := parseSeconds(s.Duration); ok && d > longest {
			longest = d
		}
	}
	return longest
}

func parseSeconds(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// SizeBytes returns the container size in bytes, or 0 when unknown
func (f Format) SizeBytes() int64 {
	if f.Size == "" {
		return 0
	}
	n, err := strconv.ParseInt(f.Size, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
