// Package artwork installs Steam grid images for synced shortcuts, either by
// copying Moonlight's cached box art or by downloading from SteamGridDB.
package artwork

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/log"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steam"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steamgriddb"
)

// CopyBoxArt installs Moonlight's cached box art into the grid directory,
// both as the shortcut icon and as the portrait grid image. The source path
// is always on the local machine, even when the Steam library is remote.
func CopyBoxArt(lib *steam.Library, userID string, appID uint32, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read box art: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := lib.SaveArtwork(userID, appID, steam.ArtworkIcon, data, ext); err != nil {
		return err
	}
	return lib.SaveArtwork(userID, appID, steam.ArtworkPortrait, data, ext)
}

// api is the slice of the SteamGridDB client the fetcher needs.
type api interface {
	Search(ctx context.Context, term string) ([]steamgriddb.SearchResult, error)
	GetGrids(ctx context.Context, gameID int, filters *steamgriddb.ImageFilters, page int) ([]steamgriddb.ImageData, error)
	GetHeroes(ctx context.Context, gameID int, filters *steamgriddb.ImageFilters, page int) ([]steamgriddb.ImageData, error)
	GetLogos(ctx context.Context, gameID int, filters *steamgriddb.ImageFilters, page int) ([]steamgriddb.ImageData, error)
	GetIcons(ctx context.Context, gameID int, filters *steamgriddb.ImageFilters, page int) ([]steamgriddb.ImageData, error)
	Download(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Fetcher downloads artwork from SteamGridDB into a Steam library.
type Fetcher struct {
	api api
	lib *steam.Library
	log zerolog.Logger
}

// NewFetcher creates a fetcher writing into lib.
func NewFetcher(client api, lib *steam.Library) *Fetcher {
	return &Fetcher{
		api: client,
		lib: lib,
		log: log.WithComponent("artwork"),
	}
}

// Failure records a single artwork kind that could not be applied.
type Failure struct {
	Kind string
	Err  error
}

// Result reports the outcome of fetching artwork for one shortcut.
type Result struct {
	AppName string
	GameID  int
	Applied []string
	Failed  []Failure
}

// Apply looks the shortcut up on SteamGridDB and installs the best image of
// each kind. Individual kinds fail independently; a missing hero never blocks
// the icon.
func (f *Fetcher) Apply(ctx context.Context, userID string, sc steam.Shortcut) Result {
	res := Result{AppName: sc.AppName}

	games, err := f.api.Search(ctx, sc.AppName)
	if err != nil {
		res.Failed = append(res.Failed, Failure{Kind: "search", Err: err})
		return res
	}
	if len(games) == 0 {
		res.Failed = append(res.Failed, Failure{Kind: "search", Err: fmt.Errorf("no SteamGridDB entry for %q", sc.AppName)})
		return res
	}

	game := games[0]
	res.GameID = game.ID
	f.log.Debug().
		Str("app", sc.AppName).
		Str("match", game.Name).
		Int("game_id", game.ID).
		Msg("matched SteamGridDB game")

	for _, kind := range f.kinds() {
		if err := f.applyKind(ctx, userID, sc.AppID, game.ID, kind); err != nil {
			f.log.Warn().Err(err).Str("app", sc.AppName).Str("kind", kind.name).Msg("artwork not applied")
			res.Failed = append(res.Failed, Failure{Kind: kind.name, Err: err})
			continue
		}
		res.Applied = append(res.Applied, kind.name)
	}

	return res
}

type imageKind struct {
	name    string
	artType steam.ArtworkType
	fetch   func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error)
}

func (f *Fetcher) kinds() []imageKind {
	static := &steamgriddb.ImageFilters{ImageType: "static"}
	portrait := &steamgriddb.ImageFilters{ImageType: "static", Dimension: "600x900"}
	banner := &steamgriddb.ImageFilters{ImageType: "static", Dimension: "460x215,920x430"}

	return []imageKind{
		{"portrait", steam.ArtworkPortrait, func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error) {
			return f.api.GetGrids(ctx, gameID, portrait, 0)
		}},
		{"banner", steam.ArtworkGrid, func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error) {
			return f.api.GetGrids(ctx, gameID, banner, 0)
		}},
		{"hero", steam.ArtworkHero, func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error) {
			return f.api.GetHeroes(ctx, gameID, static, 0)
		}},
		{"logo", steam.ArtworkLogo, func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error) {
			return f.api.GetLogos(ctx, gameID, static, 0)
		}},
		{"icon", steam.ArtworkIcon, func(ctx context.Context, gameID int) ([]steamgriddb.ImageData, error) {
			return f.api.GetIcons(ctx, gameID, static, 0)
		}},
	}
}

func (f *Fetcher) applyKind(ctx context.Context, userID string, appID uint32, gameID int, kind imageKind) error {
	images, err := kind.fetch(ctx, gameID)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no %s images available", kind.name)
	}

	data, contentType, err := f.api.Download(ctx, images[0].URL)
	if err != nil {
		return err
	}

	ext := extFromContentType(contentType)
	if ext == "" {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	return f.lib.SaveArtwork(userID, appID, kind.artType, data, ext)
}

// extFromContentType returns the file extension for a content type.
func extFromContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/vnd.microsoft.icon", "image/x-icon":
		return "ico"
	default:
		return ""
	}
}
