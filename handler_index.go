package main

import (
	"errors"
	"net/http"

	"github.com/kamareee/assetsrv/internal/safepath"
	"github.com/kamareee/assetsrv/internal/static"
)

func (srv *assetServer) handlerIndex(w http.ResponseWriter, r *http.Request) {
	p, err := safepath.Resolve(srv.cfg.Root, srv.cfg.IndexFile)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "404 page not found", nil)
		return
	}
	srv.serveFile(w, r, p)
}

// serveFile maps the static package's errors onto status codes.
func (srv *assetServer) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	err := static.Serve(w, r, p)
	switch {
	case err == nil:
	case errors.Is(err, static.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "404 page not found", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Couldn't read file", err)
	}
}
