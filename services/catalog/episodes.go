package catalog

import (
	"fmt"

	"phimstream/models"
)

// transformServers converts the upstream per-server episode arrays into the
// canonical server→episode hierarchy. Server order and per-server episode
// order are preserved exactly as upstream sent them.
func transformServers(n *imageNormalizer, servers []upstreamServer, fallbackThumb string, durationMinutes int) []models.ServerGroup {
	if len(servers) == 0 {
		return []models.ServerGroup{}
	}
	groups := make([]models.ServerGroup, 0, len(servers))
	for si, srv := range servers {
		group := models.ServerGroup{
			ServerName: srv.ServerName,
			Episodes:   make([]models.Episode, 0, len(srv.ServerData)),
		}
		for ei, ep := range srv.ServerData {
			id := ep.Slug
			if id == "" {
				id = fmt.Sprintf("ep-%d-%d", si+1, ei+1)
			}
			// Best-effort: the first integer in the display name is the
			// episode number; non-numeric names fall back to 1.
			video := ep.LinkM3U8
			if video == "" {
				video = ep.LinkEmbed
			}
			group.Episodes = append(group.Episodes, models.Episode{
				ID:              id,
				EpisodeNumber:   firstInt(ep.Name, 1),
				Title:           ep.Name,
				DurationSeconds: durationMinutes * 60,
				VideoURL:        video,
				ThumbnailURL:    n.normalize(fallbackThumb),
			})
		}
		groups = append(groups, group)
	}
	return groups
}

// hasServerEpisodes reports whether any server group carries at least one
// episode; used as a series signal by the classifier.
func hasServerEpisodes(servers []upstreamServer) bool {
	for _, srv := range servers {
		if len(srv.ServerData) > 0 {
			return true
		}
	}
	return false
}
