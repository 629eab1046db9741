// Package briteverify is a client for the BriteVerify real-time (v1) and bulk (v3)
// verification APIs.
//
// Requests and responses are the typed unions of package verification. The client
// adds the transport concerns: API key authentication, waiting out 429 responses,
// a circuit breaker, tracing, metrics and concurrent retrieval of bulk result pages.
//
//	client, err := briteverify.New(os.Getenv("BRITEVERIFY_API_KEY"))
//	if err != nil {
//		return err
//	}
//	result, err := client.VerifyEmail(ctx, "sales@validity.com")
package briteverify
