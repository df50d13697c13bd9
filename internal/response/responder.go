package response

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"bookshelf/internal/errs"
)

type Responder struct {
	DebugMode bool
}

// RespondError picks the status from err's type. Client errors are rendered
// as they are; anything unrecognised goes through RespondAndLogError.
func (rr *Responder) RespondError(w http.ResponseWriter, ctx context.Context, err error) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		conflict   *errs.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		log(ctx, slog.LevelDebug, err.Error())
		rr.SendJsonStatus(w, ctx, http.StatusBadRequest, validation.Fields)
	case errors.As(err, &notFound):
		log(ctx, slog.LevelDebug, err.Error())
		rr.renderMessage(w, ctx, http.StatusNotFound, notFound.Message)
	case errors.As(err, &conflict):
		log(ctx, slog.LevelInfo, err.Error())
		rr.renderMessage(w, ctx, http.StatusConflict, conflict.Message)
	default:
		rr.RespondAndLogError(w, ctx, err)
	}
}

// RespondAndLogError will respond with generic error code (500) and log with slog.LevelError level
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, ctx context.Context, err error) {
	errId := uuid.NewString()
	log(ctx, slog.LevelError, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, http.StatusInternalServerError, err.Error(), errId)
}

func (rr *Responder) RespondAndLogCustom(w http.ResponseWriter, ctx context.Context, err error, lvl slog.Level, status int) {
	errId := uuid.NewString()
	log(ctx, lvl, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, status, err.Error(), errId)
}

func (rr *Responder) SendJson(w http.ResponseWriter, ctx context.Context, data any) {
	rr.SendJsonStatus(w, ctx, http.StatusOK, data)
}

func (rr *Responder) SendJsonStatus(w http.ResponseWriter, ctx context.Context, status int, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.RespondAndLogError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func (rr *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Responder) renderMessage(w http.ResponseWriter, ctx context.Context, status int, message string) {
	rr.SendJsonStatus(w, ctx, status, map[string]string{"error": message})
}

func (rr *Responder) renderError(w http.ResponseWriter, ctx context.Context, status int, message, errId string) {
	data := map[string]any{}

	if rr.DebugMode {
		r, s := utf8.DecodeRuneInString(message)
		data["error"] = string(unicode.ToUpper(r)) + message[s:]
	} else {
		data["error"] = "Unknown error occurred while processing your request. Error ID: " + errId
	}

	bs, err := json.Marshal(data)
	if err == nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		log(ctx, slog.LevelError, "cannot marshall error response body: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		bs = []byte("unknown error")
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
