package main

import (
	"log"
	"net/http"

	"github.com/kamareee/assetsrv/internal/safepath"
)

func (srv *assetServer) handlerAssets(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	p, err := safepath.Resolve(srv.cfg.assetsRoot(), filename)
	if err != nil {
		log.Printf("Refusing asset %q: %v", filename, err)
		respondWithError(w, http.StatusNotFound, "404 page not found", nil)
		return
	}
	srv.serveFile(w, r, p)
}
