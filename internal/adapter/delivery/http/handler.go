package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/internal/usecase"
	"github.com/vadimbarashkov/shortlinks/pkg/problem"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	_ = problem.Write(w, problem.New(http.StatusNotFound, titleNotFound, "resource not found"))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = problem.Write(w, problem.New(http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed"))
}

type linkUseCase interface {
	Shorten(ctx context.Context, in usecase.ShortenInput) (*entity.ShortLink, error)
	Resolve(ctx context.Context, code string) (string, error)
	GetStats(ctx context.Context, code string) (*entity.Link, error)
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate) *linkHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &linkHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			_ = problem.Write(w, emptyRequestBodyProblem)
			return
		}

		_ = problem.Write(w, invalidRequestBodyProblem)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		_ = problem.Write(w, validationProblem(err))
		return
	}

	link, err := h.useCase.Shorten(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/links/"+link.Code)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCreateLinkResponse(link))
}

func (h *linkHandler) resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	target, err := h.useCase.Resolve(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *linkHandler) getStats(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	link, err := h.useCase.GetStats(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(link))
}

// writeError maps err to the problem of its kind. Infrastructure failures are
// logged on the request entry and reported with a generic detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var p problem.Details

	switch {
	case errors.Is(err, entity.ErrValidation):
		p = problem.New(http.StatusBadRequest, titleValidation, entity.DetailOf(err))
	case errors.Is(err, entity.ErrConflict):
		p = problem.New(http.StatusConflict, titleConflict, entity.DetailOf(err))
	case errors.Is(err, entity.ErrNotFound):
		p = problem.New(http.StatusNotFound, titleNotFound, entity.DetailOf(err))
	case errors.Is(err, entity.ErrExpired):
		p = problem.New(http.StatusGone, titleExpired, entity.DetailOf(err))
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		p = internalProblem
	}

	_ = problem.Write(w, p)
}
