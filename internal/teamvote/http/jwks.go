package http

import (
	"net/http"

	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

// JWKSHandler publishes the key that signs session credentials.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify session credentials.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	votesdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, votesdk.JWKSResponse(keys.PublicJWKS()))
	}
}
