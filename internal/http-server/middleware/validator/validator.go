package validator

import (
	"bannerwindow/pkg/lib/api/response"
	"bannerwindow/pkg/lib/sl"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	govalidator "github.com/go-playground/validator/v10"
)

// RegisterLayout is the wall clock form of registration times.
const RegisterLayout = time.DateTime

type Key string

const (
	PostBannerKey    = Key("post banner key")
	BannerWithIDKey  = Key("banner with id key")
	DisplayBannerKey = Key("display banner key")
)

const (
	bannerIDParam  = "id"
	timezoneParam  = "timezone"
	timezoneHeader = "X-Timezone"
)

var validate = govalidator.New(govalidator.WithRequiredStructEnabled())

type PostBannerRequest struct {
	URL       string `json:"url" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02 15:04:05"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02 15:04:05"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

type BannerWithID struct {
	BannerID int64
}

type DisplayBannerRequest struct {
	BannerID      int64
	SourceAddress string
	Timezone      string
}

// PostBanner decodes and validates the body of a banner registration.
func PostBanner(log *slog.Logger) func(next http.Handler) http.Handler {
	return middleware(log, "http-server.middleware.validator.PostBanner", PostBannerKey, func(r *http.Request) (any, error) {
		var req PostBannerRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			return nil, errBadRequest{err}
		}

		if err := validate.Struct(req); err != nil {
			return nil, err
		}

		var err error
		if req.Start, err = time.Parse(RegisterLayout, req.StartTime); err != nil {
			return nil, errBadRequest{err}
		}
		if req.End, err = time.Parse(RegisterLayout, req.EndTime); err != nil {
			return nil, errBadRequest{err}
		}

		return req, nil
	})
}

// WithID reads the {id} URL parameter.
func WithID(log *slog.Logger) func(next http.Handler) http.Handler {
	return middleware(log, "http-server.middleware.validator.WithID", BannerWithIDKey, func(r *http.Request) (any, error) {
		id, err := bannerID(r)
		if err != nil {
			return nil, err
		}
		return BannerWithID{BannerID: id}, nil
	})
}

// DisplayBanner reads the banner id, the visitor timezone and the source
// address of the request. Proxied requests need proxy.TrustedRealIP before it.
func DisplayBanner(log *slog.Logger) func(next http.Handler) http.Handler {
	return middleware(log, "http-server.middleware.validator.DisplayBanner", DisplayBannerKey, func(r *http.Request) (any, error) {
		id, err := bannerID(r)
		if err != nil {
			return nil, err
		}

		timezone := r.URL.Query().Get(timezoneParam)
		if timezone == "" {
			timezone = r.Header.Get(timezoneHeader)
		}

		return DisplayBannerRequest{
			BannerID:      id,
			SourceAddress: SourceAddress(r),
			Timezone:      timezone,
		}, nil
	})
}

// SourceAddress is the client address of r without the port.
func SourceAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func bannerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, bannerIDParam), 10, 64)
	if err != nil {
		return 0, errBadRequest{err}
	}
	if id < 0 {
		return 0, errBadRequest{response.ErrBadRequest}
	}
	return id, nil
}

type errBadRequest struct {
	err error
}

func (e errBadRequest) Error() string { return e.err.Error() }
func (e errBadRequest) Unwrap() error { return e.err }

func middleware(log *slog.Logger, op string, key Key, parse func(r *http.Request) (any, error)) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("op", op),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			req, err := parse(r)
			if err != nil {
				var validationErrs govalidator.ValidationErrors
				var badRequest errBadRequest

				switch {
				case errors.As(err, &validationErrs):
					log.Info("invalid request", sl.Err(err))
					render.Status(r, http.StatusBadRequest)
					render.JSON(w, r, response.ValidationError(validationErrs))
				case errors.As(err, &badRequest):
					log.Info("bad request", sl.Err(err))
					render.Status(r, http.StatusBadRequest)
					render.JSON(w, r, response.Error(response.ErrBadRequest.Error()))
				default:
					log.Error("internal error", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, req)))
		}

		return http.HandlerFunc(fn)
	}
}
