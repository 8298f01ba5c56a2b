package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Wire types for the upstream catalog. The API is loosely typed: numeric
// fields arrive as numbers or quoted strings depending on endpoint version,
// and director/actor arrive as either a string or an array. Every tolerant
// decode lives here so the transformer works with clean values.

// flexFloat decodes a JSON number or a quoted number ("7.2") to a float64.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON number or a quoted integer to an int.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var ff flexFloat
	if err := ff.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(ff)
	return nil
}

// flexStrings decodes a string, an array of strings, or null.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*f = nil
			return nil
		}
		*f = flexStrings{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = flexStrings(list)
	return nil
}

type upstreamTaxonomy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type upstreamTMDB struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	VoteAverage flexFloat `json:"vote_average"`
	VoteCount   flexInt   `json:"vote_count"`
}

type upstreamEpisodeEntry struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Filename  string `json:"filename"`
	LinkEmbed string `json:"link_embed"`
	LinkM3U8  string `json:"link_m3u8"`
}

type upstreamServer struct {
	ServerName string                 `json:"server_name"`
	ServerData []upstreamEpisodeEntry `json:"server_data"`
}

// upstreamItem is one raw catalog record. List endpoints populate a subset;
// the detail endpoint fills everything including the full synopsis.
type upstreamItem struct {
	ID             string             `json:"_id"`
	Name           string             `json:"name"`
	OriginName     string             `json:"origin_name"`
	Slug           string             `json:"slug"`
	Content        string             `json:"content"`
	Type           string             `json:"type"`
	Status         string             `json:"status"`
	PosterURL      string             `json:"poster_url"`
	ThumbURL       string             `json:"thumb_url"`
	Time           string             `json:"time"`
	Quality        string             `json:"quality"`
	Rating         flexFloat          `json:"rating"`
	EpisodeCurrent string             `json:"episode_current"`
	EpisodeTotal   string             `json:"episode_total"`
	Year           flexInt            `json:"year"`
	View           flexInt            `json:"view"`
	TrailerURL     string             `json:"trailer_url"`
	Cinema         bool               `json:"chieurap"`
	Country        []upstreamTaxonomy `json:"country"`
	Category       []upstreamTaxonomy `json:"category"`
	Director       flexStrings        `json:"director"`
	Actor          flexStrings        `json:"actor"`
	TMDB           *upstreamTMDB      `json:"tmdb"`
	Episodes       []upstreamServer   `json:"episodes"`
}

// Envelope shapes. The legacy new-releases endpoint nests items at the top
// level; v1 endpoints nest them under data.

type legacyEnvelope struct {
	Status bool           `json:"status"`
	Items  []upstreamItem `json:"items"`
}

type v1Envelope struct {
	Status string `json:"status"`
	Data   struct {
		Items []upstreamItem `json:"items"`
	} `json:"data"`
}

type detailEnvelope struct {
	Status   bool             `json:"status"`
	Msg      string           `json:"msg"`
	Movie    upstreamItem     `json:"movie"`
	Episodes []upstreamServer `json:"episodes"`
}
