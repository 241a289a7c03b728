package get

import (
	storage "bannerwindow/internal/database"
	"bannerwindow/internal/database/model"
	"bannerwindow/internal/http-server/middleware/validator"
	httpBanner "bannerwindow/internal/http-server/model"
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type BannerGetter interface {
	Banner(ctx context.Context, bannerID int64) (*model.Banner, error)
}

type Response struct {
	response.Response
	Banner *httpBanner.Banner `json:"banner,omitempty"`
}

func New(log *slog.Logger, bannerGetter BannerGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Get.New"

		log := log.With(
			slog.String("op", op),
		)

		req, ok := r.Context().Value(validator.BannerWithIDKey).(validator.BannerWithID)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		banner, err := bannerGetter.Banner(r.Context(), req.BannerID)
		if err != nil {
			if errors.Is(err, storage.ErrBannerNotFound) {
				log.Info("banner not found", slog.Int64("banner_id", req.BannerID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(response.ErrBannerNotFound.Error()))
			} else {
				log.Error("internal error", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			}
			return
		}

		log.Info("banner provided", slog.Int64("banner_id", banner.ID))
		render.JSON(w, r, Response{
			Response: response.OK(),
			Banner:   httpBanner.BannerDBtoBannerHTTP(*banner),
		})
	}
}
