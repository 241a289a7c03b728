package display

import (
	"bannerwindow/internal/http-server/middleware/validator"
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type BannerDisplayer interface {
	Display(ctx context.Context, bannerID int64, sourceAddr, timezone string) (string, error)
}

type Response struct {
	response.Response
	URL string `json:"url"`
}

// New answers with the url of the banner to show, or an empty url when the
// banner is missing or outside its display window.
func New(log *slog.Logger, bannerDisplayer BannerDisplayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Banner.Display.New"

		log := log.With(
			slog.String("op", op),
		)

		req, ok := r.Context().Value(validator.DisplayBannerKey).(validator.DisplayBannerRequest)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request decoded", slog.Any("request", req))

		url, err := bannerDisplayer.Display(r.Context(), req.BannerID, req.SourceAddress, req.Timezone)
		if err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("banner display decided", slog.Bool("shown", url != ""))
		render.JSON(w, r, Response{
			Response: response.OK(),
			URL:      url,
		})
	}
}
