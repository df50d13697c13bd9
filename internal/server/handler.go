package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/errs"
	"bookshelf/internal/response"
	"bookshelf/internal/types"
)

type AuthorService interface {
	GetAuthorById(ctx context.Context, id int64) (*types.Author, error)
	GetAllAuthors(ctx context.Context) ([]*types.Author, error)
	CreateAuthor(ctx context.Context, name string) (*types.Author, error)
	UpdateAuthor(ctx context.Context, id int64, name string) error
	DeleteAuthorById(ctx context.Context, id int64) error
}

type BookService interface {
	GetBookById(ctx context.Context, id int64) (*types.Book, error)
	GetAllBooks(ctx context.Context) ([]*types.Book, error)
	GetBooksByAuthorId(ctx context.Context, authorId int64) ([]*types.Book, error)
	CreateBook(ctx context.Context, title, isbn string, authorId int64) (*types.Book, error)
	UpdateBook(ctx context.Context, id int64, title, isbn string, authorId int64) error
	DeleteBookById(ctx context.Context, id int64) error
}

type authorRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type bookRequest struct {
	Title    string `json:"title" validate:"max=255"`
	Isbn     string `json:"isbn" validate:"required,bookisbn"`
	AuthorId int64  `json:"authorId" validate:"required,gt=0"`
}

func Handler(as AuthorService, bs BookService, rr *response.Responder) http.Handler {
	v := newValidator()
	r := chi.NewRouter()

	r.Route("/authors", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := as.GetAllAuthors(r.Context())
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), rows)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req authorRequest
			if err := v.decode(r, &req); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			author, err := as.CreateAuthor(r.Context(), req.Name)
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJsonStatus(w, r.Context(), http.StatusCreated, author)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			author, err := as.GetAuthorById(r.Context(), id)
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), author)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			var req authorRequest
			if err := v.decode(r, &req); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			if err := as.UpdateAuthor(r.Context(), id, req.Name); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			w.WriteHeader(http.StatusOK)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			if err := as.DeleteAuthorById(r.Context(), id); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.NoContent(w)
		})
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := bs.GetAllBooks(r.Context())
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), rows)
		})

		r.Get("/author/{authorId}", func(w http.ResponseWriter, r *http.Request) {
			authorId, err := pathId(r, "authorId")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rows, err := bs.GetBooksByAuthorId(r.Context(), authorId)
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), rows)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req bookRequest
			if err := v.decode(r, &req); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			book, err := bs.CreateBook(r.Context(), req.Title, req.Isbn, req.AuthorId)
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJsonStatus(w, r.Context(), http.StatusCreated, book)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			book, err := bs.GetBookById(r.Context(), id)
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), book)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			var req bookRequest
			if err := v.decode(r, &req); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			if err := bs.UpdateBook(r.Context(), id, req.Title, req.Isbn, req.AuthorId); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			w.WriteHeader(http.StatusOK)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathId(r, "id")
			if err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			if err := bs.DeleteBookById(r.Context(), id); err != nil {
				rr.RespondError(w, r.Context(), err)
				return
			}

			rr.NoContent(w)
		})
	})

	return r
}

// pathId parses a positive integer URL parameter.
func pathId(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationError(key, "must be a positive integer")
	}

	return id, nil
}
