package resolve

// Alias tables mapping canonical payload concepts to the key spellings
// observed across host versions. Supporting a new host alias is a data
// change here, not a code change.
var (
	qualityMapKeys = []string{"quality", "qualitys", "qualities", "quality_map", "qualityMap"}

	playlistKeys = []string{"playlist", "playlists", "items", "videos", "streams"}

	seasonKeys  = []string{"season", "season_number", "seasonNumber", "s"}
	episodeKeys = []string{"episode", "episode_number", "episodeNumber", "e"}

	episodeTitleKeys = []string{"episode_title", "episodeTitle", "episodeName", "serial_title"}

	subtitleKeys      = []string{"subtitles", "subs", "subtitle"}
	subtitleTrackKeys = []string{"tracks", "subtitle_tracks", "subtitleTracks"}

	headerContainerKeys = []string{"headers", "request_headers", "requestHeaders"}

	// headerAliases maps canonical transport header names to accepted
	// source spellings.
	headerAliases = map[string][]string{
		"Referer":    {"referer", "referrer", "Referer", "Referrer"},
		"User-Agent": {"user-agent", "useragent", "user_agent", "ua", "User-Agent"},
		"Cookie":     {"cookie", "cookies", "Cookie"},
		"Origin":     {"origin", "Origin"},
	}

	// urlFieldNames is the fixed set of candidate property names checked
	// on playlist entries and menu items.
	urlFieldNames = []string{"url", "file", "link", "stream", "source", "src", "video"}

	qualityFieldNames   = []string{"quality", "label", "name", "title"}
	bandwidthFieldNames = []string{"bandwidth", "bitrate"}

	subtitleLabelKeys = []string{"label", "language", "lang", "name", "title"}
)
