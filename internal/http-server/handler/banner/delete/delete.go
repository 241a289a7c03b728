package delete

import (
	"bannerwindow/internal/http-server/middleware/validator"
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type BannerDeleter interface {
	Delete(ctx context.Context, bannerID int64) error
}

type Response struct {
	response.Response
}

// New deletes a banner by id. Unknown ids are reported as deleted.
func New(log *slog.Logger, bannerDeleter BannerDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Delete.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("deleting banner")

		req, ok := r.Context().Value(validator.BannerWithIDKey).(validator.BannerWithID)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request decoded", slog.Any("request", req))

		if err := bannerDeleter.Delete(r.Context(), req.BannerID); err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("banner deleted")
		render.Status(r, http.StatusOK)
		render.JSON(w, r, Response{
			Response: response.OK(),
		})
	}
}
