package media

import (
	"context"
	"strings"
)

const (
	imageScheme = "wix:image://v1/"
	videoScheme = "wix:video://v1/"
)

type Config struct {
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://static.wixstatic.com/media"`
	VideoBaseURL string `env:"VIDEO_BASE_URL" envDefault:"https://video.wixstatic.com/video"`
}

// StaticResolver maps identifiers onto the public media hosts without a
// network call.
type StaticResolver struct {
	ImageBaseURL string
	VideoBaseURL string
}

func NewStaticResolver(cfg Config) *StaticResolver {
	return &StaticResolver{
		ImageBaseURL: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
		VideoBaseURL: strings.TrimSuffix(cfg.VideoBaseURL, "/"),
	}
}

// parseMediaId pulls <mediaId> out of <scheme><mediaId>/<file>#<fragment>.
func parseMediaId(id string, scheme string) (string, bool) {
	rest, found := strings.CutPrefix(id, scheme)
	if !found {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, "#")
	mediaId, _, _ := strings.Cut(rest, "/")
	return mediaId, mediaId != ""
}

func (sr *StaticResolver) Resolve(ctx context.Context, id string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if mediaId, ok := parseMediaId(id, imageScheme); ok {
		return Image{URL: sr.ImageBaseURL + "/" + mediaId}, nil
	}
	if mediaId, ok := parseMediaId(id, videoScheme); ok {
		return Image{URL: sr.VideoBaseURL + "/" + mediaId}, nil
	}
	if strings.HasPrefix(id, "https://") || strings.HasPrefix(id, "http://") {
		return Image{URL: id}, nil
	}
	return Image{}, Unsupported(id)
}
