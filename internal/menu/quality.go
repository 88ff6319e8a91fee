package menu

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/streamgrab/streamgrab/internal/dispatch"
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// showQualityMenu presents the download-specific quality selector. A
// lone manifest candidate is expanded into its variants first. Rows get
// their sizes decorated asynchronously as probe results arrive.
func (i *Interceptor) showQualityMenu(candidates []stream.Candidate, mediaCtx stream.MediaContext, headers stream.Headers, subtitles []stream.Subtitle) {
	if len(candidates) == 1 && stream.IsManifestURL(candidates[0].URL) {
		candidates = i.hls.Resolve(context.Background(), candidates[0].URL)
	}

	if len(candidates) == 1 {
		i.showTargetMenu(candidates[0], mediaCtx, headers, subtitles)
		return
	}

	m := host.Menu{
		ID:    uuid.NewString(),
		Title: i.cfg.DownloadLabel,
		Tag:   menuTag,
	}
	for _, c := range candidates {
		title := c.Quality
		if title == "" {
			title = "Stream"
		}
		m.Items = append(m.Items, host.MenuItem{Title: title})
	}

	i.surface.Show(m, func(index int) {
		if index < 0 || index >= len(candidates) {
			return
		}
		i.showTargetMenu(candidates[index], mediaCtx, headers, subtitles)
	})

	i.decorateSizes(m.ID, candidates)
}

// decorateSizes probes candidate sizes concurrently and rewrites each
// row's subtitle as its result arrives. Rows of a dismissed menu are
// silently skipped by the surface.
func (i *Interceptor) decorateSizes(menuID string, candidates []stream.Candidate) {
	urls := make([]string, len(candidates))
	for idx, c := range candidates {
		urls[idx] = c.URL
	}

	go i.prober.SizeAll(context.Background(), urls, func(index int, size int64) {
		if size <= 0 {
			return
		}
		i.surface.Update(menuID, index, formatSize(size))
	})
}

// showTargetMenu presents the external-application selector for one
// chosen candidate, with copy and share actions after the targets.
func (i *Interceptor) showTargetMenu(candidate stream.Candidate, mediaCtx stream.MediaContext, headers stream.Headers, subtitles []stream.Subtitle) {
	req := dispatch.Request{
		Candidate: candidate,
		Context:   mediaCtx,
		Headers:   headers,
		Subtitles: subtitles,
	}

	targets := i.dispatcher.Registry().All()

	m := host.Menu{
		ID:    uuid.NewString(),
		Title: i.cfg.DownloadLabel,
		Tag:   menuTag,
	}
	for _, t := range targets {
		m.Items = append(m.Items, host.MenuItem{Title: t.Name, Subtitle: t.Description})
	}
	m.Items = append(m.Items,
		host.MenuItem{Title: "Copy URL"},
		host.MenuItem{Title: "Copy details"},
		host.MenuItem{Title: "Share"},
	)

	i.surface.Show(m, func(index int) {
		switch {
		case index >= 0 && index < len(targets):
			_ = i.dispatcher.Send(req, targets[index])
		case index == len(targets):
			_ = i.dispatcher.CopyURL(req)
		case index == len(targets)+1:
			_ = i.dispatcher.CopyDetails(req)
		case index == len(targets)+2:
			_ = i.dispatcher.Share(req)
		}
	})
}

// formatSize renders a byte count for a menu row subtitle.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
