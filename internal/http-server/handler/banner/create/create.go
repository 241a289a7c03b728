package create

import (
	"bannerwindow/internal/http-server/middleware/validator"
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type BannerCreator interface {
	Register(ctx context.Context, url string, localStart, localEnd time.Time) (int64, error)
}

type Response struct {
	response.Response
	BannerID int64 `json:"banner_id"`
}

func New(log *slog.Logger, bannerCreator BannerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Create.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("creating banner")

		req, ok := r.Context().Value(validator.PostBannerKey).(validator.PostBannerRequest)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		id, err := bannerCreator.Register(r.Context(), req.URL, req.Start, req.End)
		if err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("banner created", slog.Int64("banner_id", id))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: response.OK(),
			BannerID: id,
		})
	}
}
