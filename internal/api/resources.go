package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// mountResource wires the uniform collection surface for one resource:
// list and mutate on the collection root, fetch and delete on the child.
// Updates arrive as PUT on the root with the id carried in the form, the
// shape the legacy UI submits. decorate, when set, amends each list
// snapshot before encoding; getOverride replaces the child GET handler.
func mountResource[T collection.Object](
	r chi.Router,
	s *Server,
	name string,
	col *collection.Collection[T],
	decorate func([]T),
	getOverride http.HandlerFunc,
) {
	r.Route("/"+name, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			items, err := col.List(req.Context())
			if err != nil {
				s.logger.Error("list failed", "resource", name, "error", err)
				writeDomainError(w, err)
				return
			}
			if decorate != nil {
				decorate(items)
			}
			if items == nil {
				items = []T{}
			}
			writeJSON(w, http.StatusOK, items)
		})

		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			fields, ok := formFields(w, req)
			if !ok {
				return
			}
			if _, err := col.Create(req.Context(), fields); err != nil {
				s.logDomainFailure("create", name, err)
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Put("/", func(w http.ResponseWriter, req *http.Request) {
			fields, ok := formFields(w, req)
			if !ok {
				return
			}
			id, err := fields.Require("id")
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if _, err := col.Update(req.Context(), id, fields); err != nil {
				s.logDomainFailure("update", name, err)
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		getHandler := getOverride
		if getHandler == nil {
			getHandler = func(w http.ResponseWriter, req *http.Request) {
				item, ok := getOrReload(req.Context(), col, chi.URLParam(req, "id"))
				if !ok {
					writeNotFound(w, name+" not found")
					return
				}
				writeJSON(w, http.StatusOK, item)
			}
		}
		r.Get("/{id}", getHandler)

		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			if err := col.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
				s.logDomainFailure("delete", name, err)
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

// getOrReload retries a snapshot miss once against storage, so a row
// created out of band is still addressable.
func getOrReload[T collection.Object](ctx context.Context, col *collection.Collection[T], id string) (T, bool) {
	if item, ok := col.Get(id); ok {
		return item, true
	}
	if err := col.Reload(ctx); err != nil {
		var zero T
		return zero, false
	}
	return col.Get(id)
}

// formFields parses the form body into a field bag, answering the
// request itself on malformed input.
func formFields(w http.ResponseWriter, r *http.Request) (collection.Fields, bool) {
	if err := r.ParseForm(); err != nil {
		writeBadRequest(w, "malformed form body")
		return collection.Fields{}, false
	}
	return collection.FromForm(r.PostForm), true
}

// logDomainFailure records unexpected mutation failures; expected
// domain sentinels only surface to the client.
func (s *Server) logDomainFailure(op, resource string, err error) {
	if errors.Is(err, collection.ErrNotFound) ||
		errors.Is(err, collection.ErrInvalid) ||
		errors.Is(err, collection.ErrReadOnly) {
		return
	}
	s.logger.Error(op+" failed", "resource", resource, "error", err)
}
