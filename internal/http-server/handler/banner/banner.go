package banner

import (
	"bannerwindow/internal/database/model"
	httpBanner "bannerwindow/internal/http-server/model"
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type BannerProvider interface {
	List(ctx context.Context) ([]model.Banner, error)
}

type Response struct {
	response.Response
	Banners []httpBanner.Banner `json:"banners"`
}

func New(log *slog.Logger, bannerProvider BannerProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("providing banners")

		banners, err := bannerProvider.List(r.Context())
		if err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		httpBanners := make([]httpBanner.Banner, 0, len(banners))
		for _, banner := range banners {
			httpBanners = append(httpBanners, *httpBanner.BannerDBtoBannerHTTP(banner))
		}

		log.Info("banners provided", slog.Int("count", len(httpBanners)))
		render.JSON(w, r, Response{
			Response: response.OK(),
			Banners:  httpBanners,
		})
	}
}
