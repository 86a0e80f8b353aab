package youtube

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

// Video is one playlist entry as returned by the Data API, in playlist
// order. VideoID may be empty for deleted or private videos.
type Video struct {
	VideoID      string
	Title        string
	ChannelTitle string
	Description  string
}

// VideoSource yields the ordered video entries of a playlist using a
// caller-supplied access token.
type VideoSource interface {
	PlaylistVideos(ctx context.Context, playlistID, accessToken string) ([]Video, error)
}

type Client struct {
	pageSize int64
}

type Config struct {
	PageSize int64
}

func NewClient(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50 // API maximum per page
	}
	return &Client{pageSize: pageSize}
}

// PlaylistVideos fetches every item of the playlist via
// playlistItems.list, following page tokens until exhausted.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID, accessToken string) ([]Video, error) {
	const op = "youtube.PlaylistVideos"

	if accessToken == "" {
		return nil, errors.InvalidInput(op, nil, "YouTube access token is required")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	service, err := youtubeapi.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to create YouTube service")
	}

	var videos []Video
	pageToken := ""
	for {
		call := service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(c.pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to list playlist items")
		}

		for _, item := range response.Items {
			if item.Snippet == nil {
				continue
			}

			video := Video{
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
			}
			if item.Snippet.ResourceId != nil {
				video.VideoID = item.Snippet.ResourceId.VideoId
			}
			if item.Snippet.VideoOwnerChannelTitle != "" {
				video.ChannelTitle = item.Snippet.VideoOwnerChannelTitle
			} else {
				video.ChannelTitle = "Unknown Channel"
			}

			videos = append(videos, video)
		}

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	return videos, nil
}
