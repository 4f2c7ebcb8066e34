// Package simba provides the request dispatch pipeline shared by every
// generated SIMBA Chain API client: URL building, bearer-token resolution, a
// named middleware chain around the HTTP transport, the client-credentials
// authorization flow, and response classification.
//
// # Overview
//
// The package defines the three core pieces of the pipeline. TokenStore
// persists bearer tokens keyed by client id (implementations live in
// pkg/tokenstore). Manager applies an ordered chain of named Middleware
// stages around a single Transport call. Client ties them together: it builds
// the outgoing request, injects the stored bearer token, drives the chain,
// and converts non-success responses into typed errors. Most consumers should
// construct a client through pkg/simbaclient, which wires sensible defaults.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/SIMBAChain/simba-sdk-go/pkg/simba"
//	  "github.com/SIMBAChain/simba-sdk-go/pkg/tokenstore"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  client, err := simba.New(&simba.Config{
//	    BaseURL:      "https://credential.simbachain.com",
//	    TokenURL:     "https://auth.simbachain.com/oauth/token",
//	    ClientID:     "my-client",
//	    ClientSecret: "my-secret",
//	  }, simba.WithTokenStore(tokenstore.NewInMemory()))
//	  if err != nil { log.Fatal(err) }
//	  defer client.Close()
//
//	  if err := client.Authorize(ctx, "", nil); err != nil { log.Fatal(err) }
//
//	  resp, err := client.Get(ctx, "/admin/whoami/", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = resp
//	}
//
// # Middleware
//
// Stages are selected by name from a Registry at construction time. The
// default registry ships requestid, logging, retry, and metrics; passing no
// selection enables all of them in registration order. A stage may rewrite
// the outgoing request, short-circuit by returning a response of its own, or
// post-process the response. Stage errors reach the caller unwrapped, and no
// stage is ever invoked twice for one request.
//
// # Errors
//
// Responses with status >= 300 become a *RequestError carrying the status
// code and the server's detail message. A failed token exchange becomes a
// *AuthorizationError. Configuration problems surface as sentinel errors
// (ErrNoTokenStore, ErrMissingRequestBody, ErrUnknownMiddleware). Helpers
// such as IsNotFound, IsUnauthorized, and IsRateLimited make it easy to
// branch on common cases.
//
// # Authorization
//
// Authorize performs the OAuth2 client-credentials grant through the same
// middleware chain as every other request and persists the result in the
// TokenStore. There is no automatic re-authorization on 401 and no
// expiry-aware refresh; callers re-invoke Authorize explicitly, or install a
// middleware stage that does.
package simba
